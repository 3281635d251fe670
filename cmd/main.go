package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/leeminji/quizrally/config"
	"github.com/leeminji/quizrally/database"
	adminctrl "github.com/leeminji/quizrally/internal/controller/admin"
	"github.com/leeminji/quizrally/internal/controller/middleware"
	userctrl "github.com/leeminji/quizrally/internal/controller/user"
	"github.com/leeminji/quizrally/internal/logger"
	"github.com/leeminji/quizrally/internal/model"
	"github.com/leeminji/quizrally/internal/repository"
	"github.com/leeminji/quizrally/internal/service"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func main() {
	logger.Init()

	app := fx.New(
		// Core Application Components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase, // Provides *gorm.DB
			NewGinEngine,         // Provides *gin.Engine
		),

		// Repositories Layer
		fx.Provide(
			repository.NewQuestionRepository,
			repository.NewQuizRepository,
			repository.NewAttemptRepository,
		),

		// Services Layer
		fx.Provide(
			service.NewCodeGenerator,
			service.NewRandFactory,
			service.NewQuestionService,
			service.NewQuizService,
			service.NewUserQuizService,
			service.NewAttemptService,
		),

		// API Controllers Layer
		fx.Provide(
			adminctrl.NewQuestionController,
			adminctrl.NewQuizController,
			userctrl.NewQuizController,
			userctrl.NewAttemptController,
		),

		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(AutoMigrateDB),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	r := gin.New()

	// Zerolog-backed request logging instead of gin's default.
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"}, // Be more specific in production
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	questionCtrl *adminctrl.QuestionController,
	quizAdminCtrl *adminctrl.QuizController,
	quizUserCtrl *userctrl.QuizController,
	attemptCtrl *userctrl.AttemptController,
) {
	authenticated := router.Group("/api/v1", middleware.Authenticate(cfg.Auth.JWTSecret))

	// Staff routes: catalog and quiz authoring.
	staffGroup := authenticated.Group("/admin", middleware.RequireStaff())
	{
		questionsGroup := staffGroup.Group("/questions")
		questionsGroup.POST("", questionCtrl.CreateQuestion)
		questionsGroup.GET("", questionCtrl.GetAllQuestions)
		questionsGroup.GET("/:question_id", questionCtrl.GetQuestion)
		questionsGroup.PUT("/:question_id", questionCtrl.UpdateQuestion)
		questionsGroup.DELETE("/:question_id", questionCtrl.DeleteQuestion)

		quizzesGroup := staffGroup.Group("/quizzes")
		quizzesGroup.POST("", quizAdminCtrl.CreateQuiz)
		quizzesGroup.GET("", quizAdminCtrl.GetAllQuizzes)
		quizzesGroup.GET("/:quiz_id", quizAdminCtrl.GetQuiz)
		quizzesGroup.PATCH("/:quiz_id", quizAdminCtrl.UpdateQuiz)
		quizzesGroup.DELETE("/:quiz_id", quizAdminCtrl.DeleteQuiz)
		quizzesGroup.POST("/:quiz_id/questions", quizAdminCtrl.LinkQuestions)
	}

	// User routes: quiz browsing and the attempt workflow.
	{
		authenticated.GET("/quizzes", quizUserCtrl.GetAllQuizzes)
		authenticated.GET("/quizzes/:quiz_id/questions", quizUserCtrl.DrawQuestions)

		attemptsGroup := authenticated.Group("/attempts")
		attemptsGroup.POST("", attemptCtrl.CreateAttempt)
		attemptsGroup.GET("/questions/:question_id", attemptCtrl.GetPresentedQuestion)
		attemptsGroup.POST("/choices", attemptCtrl.SaveChoiceOrder)
		attemptsGroup.PUT("/choices", attemptCtrl.SelectChoice)
		attemptsGroup.PUT("/submission", attemptCtrl.Submit)
		attemptsGroup.GET("/result", attemptCtrl.GetResult)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Quiz API server starting on port %s", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.Question{},
		&model.Choice{},
		&model.Quiz{},
		&model.QuizQuestion{},
		&model.QuizAttempt{},
		&model.AttemptQuestion{},
		&model.AttemptChoice{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
