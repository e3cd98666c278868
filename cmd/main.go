package main

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	v1 "kraft/api/v1"
	"kraft/config"
	"kraft/dao"
	"kraft/internal/auth"
	"kraft/internal/logging"
	"kraft/internal/security"
	myvalidator "kraft/internal/validator"
	"kraft/middleware"
	"kraft/model"
	"kraft/service"
)

func main() {
	// 初始化配置
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "../"
	}
	config.InitConfig(configPath)
	cfg := config.GlobalConfig

	logger := logging.Init(cfg.Server.LogLevel)
	defer logger.Sync()

	config.InitRedis()

	// 初始化数据库
	db, err := gorm.Open(mysql.Open(cfg.MySQL.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("database connect failed", zap.Error(err))
	}

	// 自动迁移
	if err := db.AutoMigrate(&model.User{}, &model.Post{}); err != nil {
		logger.Fatal("database migration failed", zap.Error(err))
	}

	// 初始化 DAO 和 Service
	userDAO := dao.NewUserDAO(db)
	postDAO := dao.NewPostDAO(db)
	userService := service.NewUserService(userDAO)
	postService := service.NewPostService(db, postDAO, userDAO)

	if err := userService.SeedAdmin(cfg.Admin.Email, cfg.Admin.Password); err != nil {
		logger.Fatal("admin seeding failed", zap.Error(err))
	}

	sessionTTL := time.Duration(cfg.Session.TTL) * time.Second
	sessions := auth.NewSessionManager(config.RedisClient, sessionTTL)
	resolver := auth.NewResolver(userDAO, sessions)
	providers := auth.NewRegistry(cfg.OAuth, cfg.Server.BaseURL, logger)
	policy := security.NewPolicy(
		providers, sessions, userService, resolver,
		[]byte(cfg.Session.StateSecret), sessionTTL, logger,
	)

	postAPI := v1.NewPostAPI(postService)
	pageAPI := v1.NewPageAPI(postService, policy.OAuthEnabled())

	// 初始化路由
	r := gin.New()
	r.Use(logging.RequestLogger(logger), gin.Recovery())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.LoadHTMLGlob("../templates/*.html")

	// 注册自定义校验器
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("notblank", myvalidator.NotBlank); err != nil {
			logger.Fatal("validator registration failed", zap.Error(err))
		}
	}

	r.Use(middleware.Identity(resolver, userService))

	loginLimiter := middleware.LoginRateLimiter(config.RedisClient, 5, time.Minute)
	policy.MountLoginRoutes(r, loginLimiter)

	// 页面
	r.GET("/", pageAPI.Index)
	pages := r.Group("/posts")
	pages.Use(middleware.RequireAuthenticated(policy.LoginURL()))
	{
		pages.GET("/save", pageAPI.SavePage)
		pages.GET("/update/:id", pageAPI.UpdatePage)
	}

	// 公共路由：只读接口
	public := r.Group("/api/post")
	{
		public.GET("/list", postAPI.List)
		public.GET("/:id", postAPI.FindByID)
	}

	// 私有路由：写接口需要 USER 及以上角色
	private := r.Group("/api/post")
	private.Use(middleware.RequireRole(model.RoleUser))
	{
		private.POST("", postAPI.Save)
		private.PUT("/:id", postAPI.Update)
		private.DELETE("/:id", postAPI.Delete)
	}

	// 启动服务
	if err := r.Run(cfg.Server.Port); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
