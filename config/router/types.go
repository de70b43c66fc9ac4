package router

import (
	"github.com/gin-gonic/gin"
)

type RequestContext = gin.Context

type MiddlewareFunc = gin.HandlerFunc

// ServiceResult is what every handler returns. Enveloped results render as
// {code, data, message}; flat results render Message and Fields at the top level.
type ServiceResult struct {
	StatusCode int               `json:"code"`
	Data       any               `json:"data"`
	Message    string            `json:"message"`
	Fields     gin.H             `json:"-"`
	Headers    map[string]string `json:"-"`
	flat       bool
}

type RateLimitResponse struct {
	Limit      int    `json:"limit"`
	Window     string `json:"window"`
	RetryAfter string `json:"retry_after"`
}

type HandlerFunction func(*RequestContext) *ServiceResult

type RESTController struct {
	name         string
	mountPoint   string
	version      string
	handlerCount int
	prepare      func(*RouterService, *RESTController)
}

func (result *ServiceResult) ToJSON() gin.H {
	if result.flat {
		body := gin.H{"message": result.Message}
		for k, v := range result.Fields {
			body[k] = v
		}
		return body
	}

	return gin.H{
		"code":    result.StatusCode,
		"data":    result.Data,
		"message": result.Message,
	}
}

// WithHeader sets a response header written alongside the result.
func (result *ServiceResult) WithHeader(key, value string) *ServiceResult {
	if result.Headers == nil {
		result.Headers = make(map[string]string)
	}
	result.Headers[key] = value
	return result
}
