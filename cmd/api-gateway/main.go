package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/arviyanto/classweave/api/swagger"
	"github.com/arviyanto/classweave/internal/handler"
	"github.com/arviyanto/classweave/internal/middleware"
	"github.com/arviyanto/classweave/internal/models"
	"github.com/arviyanto/classweave/internal/repository"
	"github.com/arviyanto/classweave/internal/scheduler"
	"github.com/arviyanto/classweave/internal/service"
	cacheclient "github.com/arviyanto/classweave/pkg/cache"
	"github.com/arviyanto/classweave/pkg/config"
	"github.com/arviyanto/classweave/pkg/database"
	"github.com/arviyanto/classweave/pkg/logger"
	corsmiddleware "github.com/arviyanto/classweave/pkg/middleware/cors"
	reqidmiddleware "github.com/arviyanto/classweave/pkg/middleware/requestid"
	"github.com/arviyanto/classweave/pkg/storage"
)

// @title ClassWeave Timetabling API
// @version 0.1.0
// @description Conflict-free academic timetable scheduling service.
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cacheclient.NewRedis(cfg.Redis)
	cacheEnabled := err == nil
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
	} else {
		defer redisClient.Close() //nolint:errcheck
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	var cacheRepo *repository.CacheRepository
	if cacheEnabled {
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, 10*60*1e9, logr, cacheEnabled)

	userRepo := repository.NewUserRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	termRepo := repository.NewTermRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	studentGroupRepo := repository.NewStudentGroupRepository(db)
	classroomRepo := repository.NewClassroomRepository(db)
	timetableRepo := repository.NewTimetableEntryRepository(db)
	schedulerRepo := repository.NewSchedulerRepository(courseRepo, studentGroupRepo, classroomRepo, teacherRepo, timetableRepo)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "classweave",
	})
	userSvc := service.NewUserService(userRepo, validate, logr)
	teacherSvc := service.NewTeacherService(teacherRepo, validate, logr)
	termSvc := service.NewTermService(termRepo, validate, logr)
	courseSvc := service.NewCourseService(courseRepo, validate, logr)
	studentGroupSvc := service.NewStudentGroupService(studentGroupRepo, validate, logr)
	classroomSvc := service.NewClassroomService(classroomRepo, validate, logr)
	timetableSvc := service.NewTimetableService(
		timetableRepo,
		schedulerRepo,
		teacherRepo,
		studentGroupRepo,
		termSvc,
		cacheSvc,
		validate,
		logr,
		service.TimetableConfig{
			Slots: scheduler.SlotConfig{
				Start: cfg.Timetable.SlotStart,
				End:   cfg.Timetable.SlotEnd,
				Step:  cfg.Timetable.SlotStep,
				Caps: scheduler.DailyCaps{
					Teacher:   cfg.Timetable.MaxTeacherDaily,
					Group:     cfg.Timetable.MaxGroupDaily,
					Classroom: cfg.Timetable.MaxClassroomDaily,
				},
			},
			GeneticSeed: cfg.Timetable.GeneticSeed,
			ProposalTTL: cfg.Timetable.ProposalCacheTTL,
		},
	)

	importSvc := service.NewTimetableImportService(courseSvc, classroomSvc, studentGroupSvc, logr)

	var exportSvc *service.TimetableExportService
	if cfg.Exports.Enabled {
		exportStore, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init export storage", "error", err)
		}
		exportSigner := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
		exportJobRepo := repository.NewExportJobRepository(db)
		exportSvc = service.NewTimetableExportService(
			exportJobRepo,
			timetableRepo,
			courseRepo,
			teacherRepo,
			classroomRepo,
			studentGroupRepo,
			exportStore,
			exportSigner,
			cfg.Exports.WorkerConcurrency,
			cfg.Exports.WorkerRetries,
			logr,
		)
		exportSvc.Start(context.Background())
		defer exportSvc.Stop()
	}

	authHandler := handler.NewAuthHandler(authSvc)
	userHandler := handler.NewUserHandler(userSvc)
	teacherHandler := handler.NewTeacherHandler(teacherSvc)
	termHandler := handler.NewTermHandler(termSvc)
	courseHandler := handler.NewCourseHandler(courseSvc)
	studentGroupHandler := handler.NewStudentGroupHandler(studentGroupSvc)
	classroomHandler := handler.NewClassroomHandler(classroomSvc)
	timetableHandler := handler.NewTimetableHandler(timetableSvc, importSvc)
	var exportHandler *handler.TimetableExportHandler
	if exportSvc != nil {
		exportHandler = handler.NewTimetableExportHandler(exportSvc)
	}
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	jwtAuth := middleware.JWT(authSvc)
	adminOnly := middleware.RequireRoles(models.RoleAdmin, models.RoleSuperAdmin)
	staffOnly := middleware.RequireRoles(models.RoleAdmin, models.RoleSuperAdmin, models.RoleTeacher)

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/forgot-password", authHandler.ForgotPassword)
		auth.POST("/reset-password", authHandler.ResetPassword)
		auth.POST("/logout", jwtAuth, authHandler.Logout)
		auth.POST("/change-password", jwtAuth, authHandler.ChangePassword)
		auth.GET("/me", jwtAuth, authHandler.Me)
	}

	users := api.Group("/users", jwtAuth, adminOnly)
	{
		users.GET("", userHandler.List)
		users.GET("/:id", userHandler.Get)
		users.POST("", userHandler.Create)
		users.PUT("/:id", userHandler.Update)
		users.DELETE("/:id", userHandler.Delete)
	}

	terms := api.Group("/terms", jwtAuth)
	{
		terms.GET("", termHandler.List)
		terms.GET("/active", termHandler.GetActive)
		terms.POST("", adminOnly, termHandler.Create)
		terms.PUT("/:id", adminOnly, termHandler.Update)
		terms.POST("/set-active", adminOnly, termHandler.SetActive)
		terms.DELETE("/:id", adminOnly, termHandler.Delete)
	}

	teachers := api.Group("/teachers", jwtAuth)
	{
		teachers.GET("", teacherHandler.List)
		teachers.GET("/:id", teacherHandler.Get)
		teachers.POST("", adminOnly, teacherHandler.Create)
		teachers.PUT("/:id", adminOnly, teacherHandler.Update)
		teachers.DELETE("/:id", adminOnly, teacherHandler.Delete)
	}

	courses := api.Group("/courses", jwtAuth)
	{
		courses.GET("", courseHandler.List)
		courses.GET("/:id", courseHandler.Get)
		courses.POST("", staffOnly, courseHandler.Create)
		courses.PUT("/:id", staffOnly, courseHandler.Update)
		courses.DELETE("/:id", adminOnly, courseHandler.Delete)
	}

	studentGroups := api.Group("/student-groups", jwtAuth)
	{
		studentGroups.GET("", studentGroupHandler.List)
		studentGroups.GET("/:id", studentGroupHandler.Get)
		studentGroups.GET("/memberships/:userId", studentGroupHandler.Memberships)
		studentGroups.POST("", staffOnly, studentGroupHandler.Create)
		studentGroups.PUT("/:id", staffOnly, studentGroupHandler.Update)
		studentGroups.DELETE("/:id", adminOnly, studentGroupHandler.Delete)
	}

	classrooms := api.Group("/classrooms", jwtAuth)
	{
		classrooms.GET("", classroomHandler.List)
		classrooms.GET("/:id", classroomHandler.Get)
		classrooms.POST("", staffOnly, classroomHandler.Create)
		classrooms.PUT("/:id", staffOnly, classroomHandler.Update)
		classrooms.DELETE("/:id", adminOnly, classroomHandler.Delete)
	}

	timetable := api.Group("/timetable", jwtAuth)
	{
		timetable.GET("", timetableHandler.List)
		timetable.GET("/:id", timetableHandler.Get)
		timetable.POST("", adminOnly, timetableHandler.Create)
		timetable.PUT("/:id", adminOnly, timetableHandler.Update)
		timetable.DELETE("/:id", adminOnly, timetableHandler.Delete)
		timetable.POST("/import", adminOnly, timetableHandler.Import)

		generate := timetable.Group("/generate", adminOnly)
		{
			generate.GET("", timetableHandler.GenerateGreedy)
			generate.GET("/graph-coloring", timetableHandler.GenerateGraphColoring)
			generate.GET("/genetic", timetableHandler.GenerateGenetic)
			generate.GET("/compare", timetableHandler.CompareAlgorithms)
			generate.POST("/save", timetableHandler.SaveProposal)
		}

		if exportHandler != nil {
			exportGroup := timetable.Group("/export")
			{
				exportGroup.POST("", adminOnly, exportHandler.Enqueue)
				exportGroup.GET("/:id", exportHandler.Status)
				exportGroup.GET("/download/:token", exportHandler.Download)
			}
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	srv := &http.Server{Addr: addr, Handler: r}
	if err := srv.ListenAndServe(); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
