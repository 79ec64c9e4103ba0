package quiz

import "math"

// Section is one exam domain: a fixed group of category labels plus its
// relative weight in a practice test.
type Section struct {
	Number      int      `json:"sectionNumber"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Categories  []string `json:"categories"`
	Weight      float64  `json:"weight"`
}

// Catalog is the ordered set of sections known to the engine.
type Catalog struct {
	sections []Section
}

func NewCatalog(sections []Section) *Catalog {
	c := &Catalog{sections: make([]Section, len(sections))}
	for i, s := range sections {
		s.Categories = cloneStrings(s.Categories)
		c.sections[i] = s
	}
	return c
}

// DefaultCatalog returns the five Security+ SY0-701 domains.
func DefaultCatalog() *Catalog {
	return NewCatalog([]Section{
		{
			Number:      1,
			Name:        "General Security Concepts",
			Description: "Foundational security concepts, CIA triad, authentication, and basic principles",
			Categories: []string{
				"General Security Concepts",
				"Zero Trust Architecture",
				"Cryptography and PKI",
				"Identity and Access Management",
				"Physical Security",
				"Personnel Security",
			},
			Weight: 24,
		},
		{
			Number:      2,
			Name:        "Threats, Vulnerabilities, and Mitigations",
			Description: "Threat actors, attack types, vulnerabilities, and mitigation strategies",
			Categories: []string{
				"Threats, Vulnerabilities, and Mitigations",
				"Threats, Attacks, and Vulnerabilities",
				"Threat Actors",
				"Threat Intelligence",
				"Attack Frameworks",
				"Application Attacks",
				"Network Attacks",
				"Physical Attacks",
				"Social Engineering Attacks",
				"Malware",
				"Exploits",
				"Vulnerability Management",
			},
			Weight: 30,
		},
		{
			Number:      3,
			Name:        "Security Architecture",
			Description: "Security design, network architecture, cloud security, and configurations",
			Categories: []string{
				"Security Architecture",
				"Secure Network Design",
				"Secure Configurations",
				"Cloud Models & Virtualization",
				"Embedded/IoT/SCADA",
				"Resiliency",
				"Technologies and Tools",
			},
			Weight: 21,
		},
		{
			Number:      4,
			Name:        "Security Operations",
			Description: "Security monitoring, incident response, forensics, and operational tasks",
			Categories: []string{
				"Security Operations",
				"Incident Response",
				"Digital Forensics",
				"SIEM and Monitoring",
				"Security Tools",
			},
			Weight: 16,
		},
		{
			Number:      5,
			Name:        "Security Program Management and Oversight",
			Description: "Governance, risk management, compliance, policies, and standards",
			Categories: []string{
				"Security Program Management and Oversight",
				"Governance and Oversight",
				"Risk Management",
				"Policies and Procedures",
				"Regulations and Standards",
			},
			Weight: 9,
		},
	})
}

// WithWeights returns a copy of c with the given per-section weights
// applied. Sections missing from weights keep their current weight.
func (c *Catalog) WithWeights(weights map[int]float64) *Catalog {
	out := NewCatalog(c.sections)
	for i := range out.sections {
		if w, ok := weights[out.sections[i].Number]; ok && w >= 0 && !math.IsInf(w, 0) && !math.IsNaN(w) {
			out.sections[i].Weight = w
		}
	}
	return out
}

func (c *Catalog) Section(number int) (Section, bool) {
	for _, s := range c.sections {
		if s.Number == number {
			s.Categories = cloneStrings(s.Categories)
			return s, true
		}
	}
	return Section{}, false
}

func (c *Catalog) All() []Section {
	out := make([]Section, len(c.sections))
	for i, s := range c.sections {
		s.Categories = cloneStrings(s.Categories)
		out[i] = s
	}
	return out
}
