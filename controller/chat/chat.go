package chat

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"todochat/apperr"
	"todochat/dto"
	"todochat/services"
)

func ChatController(router *gin.Engine, relay *services.ChatRelay) {
	router.POST("/chat", func(c *gin.Context) {
		Chat(c, relay)
	})
}

// Chat relays the message to the chat automation. Only validation failures
// get a JSON error; a failed relay call aborts with a bare 500.
func Chat(c *gin.Context, relay *services.ChatRelay) {
	var chatReq dto.ChatRequest
	if err := c.ShouldBindJSON(&chatReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and message required"})
		return
	}

	reply, err := relay.Send(c.Request.Context(), chatReq.Email, chatReq.Message)
	if err != nil {
		var validation *apperr.ValidationError
		if errors.As(err, &validation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, dto.ChatResponse{Reply: reply})
}
