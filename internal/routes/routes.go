package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-syllabus-api/internal/authz"
	"github.com/noah-isme/sma-syllabus-api/internal/handler"
	"github.com/noah-isme/sma-syllabus-api/internal/middleware"
	"github.com/noah-isme/sma-syllabus-api/internal/models"
	"github.com/noah-isme/sma-syllabus-api/pkg/config"
	"github.com/noah-isme/sma-syllabus-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-syllabus-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-syllabus-api/pkg/middleware/requestid"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth        *handler.AuthHandler
	Users       *handler.UserHandler
	Classes     *handler.ClassHandler
	Subjects    *handler.SubjectHandler
	Syllabus    *handler.SyllabusHandler
	Assignments *handler.AssignmentHandler
	Progress    *handler.ProgressHandler
	Lookups     *handler.LookupHandler
	Dashboards  *handler.DashboardHandler
	Topics      *handler.TopicHandler
	Reports     *handler.ReportHandler
	Metrics     *handler.MetricsHandler
}

type tokenValidator interface {
	ValidateToken(token string) (*models.JWTClaims, error)
}

type httpObserver interface {
	ObserveHTTPRequest(method, path string, status int, duration time.Duration)
}

// Options configures the cross-cutting middleware.
type Options struct {
	Logger         *zap.Logger
	Tokens         tokenValidator
	Observer       httpObserver
	Session        config.SessionConfig
	AllowedOrigins []string
	EnableDocs     bool
}

// SetupRouter builds the gin engine with every route role-gated through authz.
func SetupRouter(h Handlers, opts Options) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(opts.Logger))
	r.Use(corsmiddleware.New(opts.AllowedOrigins))
	r.Use(middleware.Metrics(opts.Observer))
	r.Use(middleware.WithResponseMeta())
	r.Use(middleware.Sessions(opts.Session))
	r.Use(middleware.Authenticate(opts.Tokens))

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)
	if opts.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	auth := r.Group("/auth")
	auth.GET("/login", h.Auth.Status)
	auth.POST("/login", h.Auth.Login)
	auth.GET("/logout", h.Auth.Logout)

	// Form lookups stay public so dependent dropdowns work before login.
	lookups := r.Group("/admin/api")
	lookups.GET("/sections-for-class/:class_id", h.Lookups.Sections)
	lookups.GET("/groups-for-class/:class_id", h.Lookups.Groups)
	lookups.GET("/subjects-for-class/:class_id", h.Lookups.Subjects)

	audit := func(action string) gin.HandlerFunc { return middleware.Audit(opts.Logger, action) }

	admin := r.Group("/admin")
	admin.GET("/", middleware.RequireAction(authz.ViewAdminDashboard), h.Dashboards.Admin)

	users := admin.Group("", middleware.RequireAction(authz.ManageUsers))
	users.GET("/users", h.Users.List)
	users.GET("/user/create", h.Users.CreateForm)
	users.POST("/user/create", audit("user.create"), h.Users.Create)
	users.GET("/user/:id/edit", h.Users.EditForm)
	users.POST("/user/:id/edit", audit("user.update"), h.Users.Update)

	hierarchy := admin.Group("", middleware.RequireAction(authz.ManageHierarchy))
	hierarchy.GET("/classes", h.Classes.List)
	hierarchy.GET("/class/create", h.Classes.CreateForm)
	hierarchy.POST("/class/create", audit("class.create"), h.Classes.Create)
	hierarchy.POST("/class/:id/delete", audit("class.delete"), h.Classes.Delete)
	hierarchy.POST("/class/:id/section", audit("section.create"), h.Classes.CreateSection)
	hierarchy.POST("/class/:id/group", audit("group.create"), h.Classes.CreateGroup)
	hierarchy.GET("/subjects", h.Subjects.List)
	hierarchy.GET("/subject/create", h.Subjects.CreateForm)
	hierarchy.POST("/subject/create", audit("subject.create"), h.Subjects.Create)
	hierarchy.GET("/syllabus", h.Syllabus.Tree)
	hierarchy.GET("/chapter/create", h.Syllabus.ChapterForm)
	hierarchy.POST("/chapter/create", audit("chapter.create"), h.Syllabus.CreateChapter)
	hierarchy.GET("/topic/create", h.Syllabus.TopicForm)
	hierarchy.POST("/topic/create", audit("topic.create"), h.Syllabus.CreateTopic)
	hierarchy.GET("/progress/:kind/:id", h.Progress.Get)

	assignments := admin.Group("", middleware.RequireAction(authz.ManageAssignments))
	assignments.GET("/assignments", h.Assignments.List)
	assignments.GET("/assignment/create", h.Assignments.CreateForm)
	assignments.POST("/assignment/create", audit("assignment.create"), h.Assignments.Create)
	assignments.POST("/assignment/:id/delete", audit("assignment.delete"), h.Assignments.Delete)

	r.GET("/teacher/", middleware.RequireAction(authz.ViewTeacherDashboard), h.Dashboards.Teacher)
	r.POST("/api/topic/:topic_id", middleware.RequireAction(authz.ToggleTopic), h.Topics.Update)

	principal := r.Group("/principal")
	principal.GET("/", middleware.RequireAction(authz.ViewPrincipalBoard), h.Dashboards.Principal)
	reports := principal.Group("/reports", middleware.RequireAction(authz.ViewReports))
	reports.GET("", h.Reports.Page)
	reports.GET("/download/:format", h.Reports.Download)
	reports.GET("/emails", h.Reports.EmailHistory)
	principal.POST("/reports/email", middleware.RequireAction(authz.EmailReports), h.Reports.Email)

	return r
}
