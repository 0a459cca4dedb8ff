package httpx

import (
	"github.com/gin-gonic/gin"
	"github.com/you/accountsvc/internal/http/handlers"
	"github.com/you/accountsvc/internal/http/middleware"
)

func BuildRouter(ah *handlers.AuthHandlers, ph *handlers.PasswordHandlers, jwtmw *middleware.AuthMW, cb *middleware.CasbinMW) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	auth := r.Group("/auth")
	auth.GET("/signup", jwtmw.WithOptionalJWT(), ah.Probe)
	auth.POST("/signup", ah.Signup)
	auth.GET("/login", jwtmw.WithOptionalJWT(), ah.Probe)
	auth.POST("/login", ah.Login)
	auth.GET("/password/update", jwtmw.WithOptionalJWT(), ah.Probe)
	auth.GET("/password/reset", jwtmw.WithOptionalJWT(), ah.Probe)
	auth.POST("/password/reset", ph.RequestReset)
	auth.GET("/password/reset/:token", ph.ValidateToken)
	auth.POST("/password/reset/:token", ph.CompleteReset)

	v := r.Group("/auth").Use(jwtmw.WithJWT(), cb.Enforce())
	v.GET("/logout", ah.Logout)
	v.POST("/password/update", ph.Update)
	v.DELETE("/delete", ah.Delete)

	return r
}
