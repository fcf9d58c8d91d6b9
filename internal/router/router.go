// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/univote/campus-election-api/internal/handler"
	"github.com/univote/campus-election-api/internal/middleware"
	"github.com/univote/campus-election-api/internal/model"
)

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers session endpoints.  Unauthenticated operations
// live under /v1/auth; /v1/auth/me requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Rotates the refresh token.
	g.POST("/refresh", a.Refresh)
	// Issues a new access token without rotating the refresh token.
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout works with either a bearer token or a refresh_token body,
	// so it stays outside the JWT middleware.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole(model.RoleAdmin, model.RoleUser))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers the unauthenticated ballot catalog and result
// endpoints.  The optional cache middleware fronts these reads; results
// change constantly during voting and the catalog barely at all, so both
// tolerate a short cache TTL.
func RegisterPublic(e *echo.Echo, el *handler.ElectionHandler, p *handler.PostHandler, cand *handler.CandidateHandler, v *handler.VoteHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/v1")
	if cache != nil {
		g.Use(cache)
	}
	g.GET("/elections", el.ListActive)
	g.GET("/elections/:id", el.Get)
	g.GET("/elections/:id/results", v.ResultsByElection)
	g.GET("/posts", p.List)
	g.GET("/candidates", cand.List)
	g.GET("/posts/:id", p.Get)
	g.GET("/posts/:id/results", v.ResultsByPost)
}

// RegisterVoting registers the authenticated voting endpoints.
func RegisterVoting(e *echo.Echo, v *handler.VoteHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleAdmin, model.RoleUser))
	g.POST("/votes", v.SubmitVote)
	g.GET("/votes/mine", v.ListMyVotes)
	// Voters may read their own ballots here; admins may read anyone's.
	g.GET("/users/:id/votes", v.ListUserVotes)
}

// RegisterAdmin registers catalog management, roster management and
// ledger inspection endpoints, all restricted to the admin role.
func RegisterAdmin(e *echo.Echo, el *handler.ElectionHandler, p *handler.PostHandler, cand *handler.CandidateHandler, ev *handler.EligibleVoterHandler, u *handler.UserHandler, v *handler.VoteHandler, jwtSecret string) {
	g := e.Group("/v1/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleAdmin))

	g.POST("/elections", el.Create)
	g.POST("/posts", p.Create)
	g.POST("/candidates", cand.Create)
	g.PUT("/candidates/:id", cand.Update)
	g.DELETE("/candidates/:id", cand.Delete)

	g.GET("/eligible-voters", ev.List)
	g.POST("/eligible-voters", ev.Add)
	g.POST("/eligible-voters/import", ev.ImportCSV)

	g.GET("/users", u.List)
	g.GET("/votes", v.ListAllVotes)
}
