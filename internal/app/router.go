package app

import (
	"secplus_backend/docs"
	"secplus_backend/internal/config"
	"secplus_backend/internal/middleware"
	"secplus_backend/internal/model"

	"secplus_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")
	api.GET("/health", c.health.HealthCheck)

	// anonymous use is allowed; a valid token attaches results to the user
	a.registerQuizRoutes(api, c, cfg)
	a.registerFlashcardRoutes(api, c, cfg)
	a.registerQuestionRoutes(api, c)

	progress := api.Group("/progress")
	progress.Use(middleware.AuthMiddleware(cfg))
	{
		progress.GET("/history", c.progress.GetHistory)
		progress.GET("/statistics", c.progress.GetStatistics)
		progress.GET("/sections", c.progress.GetSectionProgress)
		progress.GET("/study-time", c.progress.GetStudyTime)
		progress.GET("/trends", c.progress.GetTrends)
		progress.POST("/study-session", c.progress.SaveStudySession)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		admin.POST("/questions/import", c.question.ImportQuestions)
	}
}

func (a *App) registerQuizRoutes(api *gin.RouterGroup, c *controllers, cfg *config.Config) {
	quiz := api.Group("/quiz")
	quiz.Use(middleware.TryAuthMiddleware(cfg))
	{
		quiz.GET("/sections", c.quiz.GetSections)
		quiz.GET("/sections/:section", c.quiz.GetSection)

		quiz.POST("/create/section/:section", c.quiz.CreateSectionQuiz)
		quiz.POST("/create/category", c.quiz.CreateCategoryQuiz)
		quiz.POST("/create/random", c.quiz.CreateRandomQuiz)
		quiz.POST("/create/practice-test", c.quiz.CreatePracticeTest)

		quiz.GET("/:quizId/question/:number", c.quiz.GetQuestion)
		quiz.POST("/:quizId/submit", c.quiz.SubmitAnswer)
		quiz.GET("/:quizId/results", c.quiz.GetResults)
		quiz.GET("/:quizId/review", c.quiz.GetReview)
		quiz.DELETE("/:quizId", c.quiz.Cleanup)
	}
}

func (a *App) registerFlashcardRoutes(api *gin.RouterGroup, c *controllers, cfg *config.Config) {
	flashcards := api.Group("/flashcards")
	flashcards.Use(middleware.TryAuthMiddleware(cfg))
	{
		flashcards.POST("/section/:section", c.flashcard.CreateSession)
		flashcards.GET("/:sessionId/card", c.flashcard.GetCard)
		flashcards.GET("/:sessionId/card/:number", c.flashcard.GetCard)
		flashcards.POST("/:sessionId/card/:number", c.flashcard.SetCard)
		flashcards.GET("/:sessionId/cards", c.flashcard.GetCards)
		flashcards.POST("/:sessionId/navigate", c.flashcard.Navigate)
		flashcards.DELETE("/:sessionId", c.flashcard.Cleanup)
	}
}

func (a *App) registerQuestionRoutes(api *gin.RouterGroup, c *controllers) {
	questions := api.Group("/questions")
	{
		questions.GET("", c.question.ListQuestions)
		questions.GET("/categories", c.question.GetCategories)
		questions.GET("/tags", c.question.GetTags)
		questions.GET("/:id", c.question.GetQuestion)
	}
}
