package app

import (
	"codementor_backend/docs"
	"codementor_backend/internal/config"
	"codementor_backend/internal/middleware"
	"codementor_backend/internal/model"

	"codementor_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		// 学生/通用 授权接口
		a.registerStudentRoutes(authGroup, c)

		// 教师相关接口
		a.registerTeacherRoutes(authGroup, c)
	}

	// 3. 管理员相关接口
	a.registerAdminRoutes(router, c, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		// 游客可浏览已发布内容
		public.GET("/tests", c.test.ListTests)
		public.GET("/tests/:id", c.test.GetTest)
		public.GET("/courses", c.course.ListCourses)
		public.GET("/courses/:id", c.course.GetCourse)
		public.GET("/challenges", c.challenge.ListChallenges)
		public.GET("/challenges/:id", c.challenge.GetChallenge)
		public.GET("/paths", c.learningPath.ListPaths)
		public.GET("/paths/:id", c.learningPath.GetPath)
		public.GET("/mcqs/practice", c.mcq.GetPracticeSet)
		public.GET("/lessons/:lessonId/mcqs", c.mcq.GetByLesson)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)
	rg.PUT("/profile", c.auth.UpdateProfile)
	rg.GET("/users/stats", c.user.GetStats)
	rg.GET("/users/leaderboard", c.user.Leaderboard)
	rg.POST("/users/avatar", c.user.UploadAvatar)
	rg.GET("/progress", c.progress.GetProgress)

	// 课程学习
	rg.GET("/lessons/:lessonId", c.course.GetLesson)
	rg.POST("/lessons/:lessonId/complete", c.course.CompleteLesson)

	// 编程挑战
	rg.POST("/challenges/:id/submit", c.challenge.SubmitSolution)
	rg.POST("/execute", c.challenge.Execute)

	// 选择题练习
	rg.POST("/mcqs/:id/check", c.mcq.CheckAnswer)

	// 测验：一次性提交与历史记录
	rg.POST("/tests/:id/submit", c.test.SubmitTest)
	rg.GET("/tests/attempts", c.test.ListAttempts)
	rg.GET("/tests/attempts/:attemptId", c.test.GetAttempt)

	// 测验：服务端计时会话
	rg.POST("/tests/:id/attempts", c.attempt.StartAttempt)
	rg.GET("/attempts/:attemptId", c.attempt.GetState)
	rg.PUT("/attempts/:attemptId/answers", c.attempt.Answer)
	rg.PUT("/attempts/:attemptId/navigate", c.attempt.Navigate)
	rg.PUT("/attempts/:attemptId/flag", c.attempt.ToggleFlag)
	rg.POST("/attempts/:attemptId/submit", c.attempt.SubmitAttempt)
	rg.DELETE("/attempts/:attemptId", c.attempt.AbandonAttempt)

	// AI 助教
	rg.POST("/ai/chat", c.ai.Chat)
	rg.POST("/ai/attempts/:attemptId/feedback", c.ai.ExplainAttempt)
}

func (a *App) registerTeacherRoutes(rg *gin.RouterGroup, c *controllers) {
	teacher := middleware.RoleMiddleware(model.Teacher)

	// 课程管理
	rg.POST("/courses", teacher, c.course.CreateCourse)
	rg.PUT("/courses/:id", teacher, c.course.UpdateCourse)
	rg.DELETE("/courses/:id", teacher, c.course.DeleteCourse)
	rg.POST("/courses/:id/lessons", teacher, c.course.AddLesson)
	rg.PUT("/lessons/:lessonId", teacher, c.course.UpdateLesson)
	rg.DELETE("/lessons/:lessonId", teacher, c.course.DeleteLesson)

	// 挑战管理
	rg.POST("/challenges", teacher, c.challenge.CreateChallenge)
	rg.PUT("/challenges/:id", teacher, c.challenge.UpdateChallenge)
	rg.DELETE("/challenges/:id", teacher, c.challenge.DeleteChallenge)

	// 选择题管理
	rg.POST("/mcqs", teacher, c.mcq.CreateMCQ)
	rg.DELETE("/mcqs/:id", teacher, c.mcq.DeleteMCQ)

	// 学习路径管理
	rg.POST("/paths", teacher, c.learningPath.CreatePath)
	rg.PUT("/paths/:id", teacher, c.learningPath.UpdatePath)
	rg.DELETE("/paths/:id", teacher, c.learningPath.DeletePath)

	// 测验管理
	rg.POST("/tests", teacher, c.test.CreateTest)
	rg.PUT("/tests/:id", teacher, c.test.UpdateTest)
	rg.DELETE("/tests/:id", teacher, c.test.DeleteTest)
	rg.PUT("/tests/:id/publish", teacher, c.test.PublishTest)
	rg.POST("/tests/generate", teacher, c.test.GenerateQuestions)
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/users", c.user.ListUsers)
		admin.PUT("/users/:id/disabled", c.user.SetDisabled)
	}
}
