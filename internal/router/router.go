// File: internal/router/router.go
package router

import (
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"tasktracker/internal/api"
	"tasktracker/internal/database"
	"tasktracker/internal/handler"
	"tasktracker/internal/handler/auth"
	"tasktracker/internal/handler/issues"
	"tasktracker/internal/handler/projects"
	"tasktracker/internal/handler/users"
	"tasktracker/internal/metrics"
	"tasktracker/internal/middleware"
	"tasktracker/internal/service"
	"tasktracker/internal/tokenstore"
)

// Setup 註冊所有路由與中介層
func Setup(e *echo.Echo, db database.DB, tokens tokenstore.Store, ttl service.TokenTTL, m *metrics.Metrics) {
	if m != nil {
		api.ObserveErrors(func(kind string) {
			m.APIErrorsTotal.WithLabelValues(kind).Inc()
		})
		e.GET("/metrics", echo.WrapHandler(m.Handler()))
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	g := e.Group("/api")

	// 公開端點
	g.POST("/signup", auth.SignupHandler(db))
	g.POST("/login", auth.LoginHandler(db, tokens, ttl))
	g.POST("/token/refresh", auth.RefreshHandler(db, tokens, ttl))

	// 以下皆需登入
	authed := g.Group("", middleware.RequireAuth)
	authed.GET("/ping", handler.PingHandler(db, tokens))

	authed.GET("/users", users.ListUsersHandler(db))
	user := authed.Group("/users/:user_id")
	user.GET("", users.GetUserHandler(db))
	user.PUT("", users.UpdateUserHandler(db))
	user.PATCH("", users.UpdateUserHandler(db))
	user.DELETE("", users.DeleteUserHandler(db))

	authed.GET("/projects", projects.ListProjectsHandler(db))
	authed.POST("/projects", projects.CreateProjectHandler(db))
	project := authed.Group("/projects/:project_id")
	project.GET("", projects.GetProjectHandler(db))
	project.PUT("", projects.UpdateProjectHandler(db))
	project.PATCH("", projects.UpdateProjectHandler(db))
	project.DELETE("", projects.DeleteProjectHandler(db))

	project.GET("/users", projects.ListContributorsHandler(db))
	project.POST("/users", projects.AddContributorHandler(db))
	project.GET("/users/:contributor_id", projects.GetContributorHandler(db))
	project.PUT("/users/:contributor_id", projects.UpdateContributorHandler(db))
	project.PATCH("/users/:contributor_id", projects.UpdateContributorHandler(db))
	project.DELETE("/users/:contributor_id", projects.RemoveContributorHandler(db))

	project.GET("/issues", issues.ListIssuesHandler(db))
	project.POST("/issues", issues.CreateIssueHandler(db))
	issue := project.Group("/issues/:issue_id")
	issue.GET("", issues.GetIssueHandler(db))
	issue.PUT("", issues.UpdateIssueHandler(db))
	issue.PATCH("", issues.UpdateIssueHandler(db))
	issue.DELETE("", issues.DeleteIssueHandler(db))

	issue.GET("/comments", issues.ListCommentsHandler(db))
	issue.POST("/comments", issues.CreateCommentHandler(db))
	issue.GET("/comments/:comment_id", issues.GetCommentHandler(db))
	issue.PUT("/comments/:comment_id", issues.UpdateCommentHandler(db))
	issue.PATCH("/comments/:comment_id", issues.UpdateCommentHandler(db))
	issue.DELETE("/comments/:comment_id", issues.DeleteCommentHandler(db))
}
