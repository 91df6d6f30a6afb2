package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"modelbridge/domain"
	"modelbridge/host"
)

type Controller struct {
	gateway     *host.Gateway
	extensionId string
}

func NewController(gateway *host.Gateway, extensionId string) *Controller {
	return &Controller{
		gateway:     gateway,
		extensionId: extensionId,
	}
}

func DefineRoutes(ctrl *Controller) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(CORSMiddleware())
	r.ForwardedByClientIP = true
	r.SetTrustedProxies(nil)

	r.GET("/health", ctrl.HealthHandler)
	r.GET("/api/models", ctrl.GetModelsHandler)
	r.POST("/api/chat", ctrl.ChatHandler)
	r.GET("/api/docs", ctrl.DocsHandler)

	return r
}

func (ctrl *Controller) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, domain.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Extension: ctrl.extensionId,
	})
}

func (ctrl *Controller) GetModelsHandler(c *gin.Context) {
	models, err := ctrl.gateway.ListModels(c.Request.Context(), nil)
	if err != nil {
		if errors.Is(err, host.ErrNoModelsAvailable) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": host.ErrNoModelsAvailable.Error()})
		} else {
			log.Error().Err(err).Msg("Failed to list models")
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, domain.ModelListResponse{
		Success: true,
		Models:  models,
		Count:   len(models),
	})
}

// ChatHandler resolves the target model, invokes it synchronously via the
// gateway, and returns a single composed BridgeResponse. There is no
// streaming at this layer: incremental delivery is flattened before the
// bridge ever sees it.
func (ctrl *Controller) ChatHandler(c *gin.Context) {
	var req domain.BridgeRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Messages) == 0 {
		c.JSON(http.StatusBadRequest, domain.BridgeResponse{
			Success: false,
			Error:   "Messages array is required",
		})
		return
	}

	ctx := c.Request.Context()

	models, err := ctrl.gateway.ListModels(ctx, req.Model)
	if err != nil {
		if errors.Is(err, host.ErrNoModelsAvailable) {
			c.JSON(http.StatusNotFound, domain.BridgeResponse{
				Success: false,
				Error:   host.ErrNoModelsAvailable.Error(),
			})
		} else {
			c.JSON(http.StatusInternalServerError, domain.BridgeResponse{
				Success: false,
				Error:   err.Error(),
			})
		}
		return
	}
	model := models[0]

	response, err := ctrl.gateway.Invoke(ctx, model, req.Messages, host.InvokeOptions(req.Options))
	if err != nil {
		log.Error().Err(err).Str("model", model.Id).Msg("Host model invocation failed")
		c.JSON(http.StatusInternalServerError, domain.BridgeResponse{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, domain.BridgeResponse{
		Success:  true,
		Response: response,
		Model:    &model,
	})
}

func (ctrl *Controller) DocsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":        "Model Bridge API",
		"description": "HTTP access to the host environment's in-process language models",
		"endpoints": []gin.H{
			{
				"method":      "GET",
				"path":        "/health",
				"description": "Server health check",
			},
			{
				"method":      "GET",
				"path":        "/api/models",
				"description": "List available language models",
			},
			{
				"method":      "POST",
				"path":        "/api/chat",
				"description": "Send a chat request and receive a single composed response",
				"body": gin.H{
					"messages": []gin.H{{"content": "string (required)"}},
					"model":    gin.H{"id": "string", "vendor": "string", "family": "string"},
					"options":  gin.H{},
				},
			},
			{
				"method":      "GET",
				"path":        "/api/docs",
				"description": "This documentation",
			},
		},
	})
}
