package health

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"todochat/config"
	"todochat/dto"
)

func HealthController(router *gin.Engine, storeCfg config.StoreConfig) {
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Api is running!"})
	})
	router.GET("/health/config", func(c *gin.Context) {
		ConfigStatus(c, storeCfg)
	})
}

// ConfigStatus reports whether the store settings are present without
// exposing their values.
func ConfigStatus(c *gin.Context, storeCfg config.StoreConfig) {
	resp := dto.ConfigStatusResponse{
		HasStoreURL:        storeCfg.URL != "",
		HasStoreCredential: storeCfg.Credential != "",
		URLLength:          len(storeCfg.URL),
		CredentialLength:   len(storeCfg.Credential),
	}
	switch {
	case storeCfg.Driver == config.DriverMemory:
		resp.Message = "Using the in-memory store, no credentials needed"
	case resp.HasStoreURL && resp.HasStoreCredential:
		resp.Message = "Environment variables are loaded correctly"
	default:
		resp.Message = "Missing environment variables. Check your .env file."
	}
	c.JSON(http.StatusOK, resp)
}
