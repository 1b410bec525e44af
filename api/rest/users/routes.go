package users

import "github.com/gin-gonic/gin"

// registers user routes on a group that is already authenticated
func RegisterRoutes(rg *gin.RouterGroup) {
	user := rg.Group("/user")

	user.GET("/profile", GetProfile())
}
