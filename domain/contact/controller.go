package contact

import (
	"net/http"

	"github.com/akeren/portfolio-api/config/router"
	"github.com/akeren/portfolio-api/internal/log"
	apperrors "github.com/akeren/portfolio-api/pkg/errors"
	"github.com/akeren/portfolio-api/pkg/ratelimit"
)

// NewContactController serves POST /v1/contact. The controller is exempt from the
// router-wide limiter; submissions are limited per client by limiter instead.
func NewContactController(logger *log.Logger, repository MessageRepository, limiter ratelimit.RateLimiter, opts ...ServiceOption) *router.RESTController {
	return router.NewVersionedRESTController(
		"ContactController",
		"v1",
		"/contact",
		func(rs *router.RouterService, c *router.RESTController) {
			c.RateLimitWith(rs, ratelimit.NewUnlimitedRateLimiter())

			service := NewContactService(logger, repository, limiter, opts...)
			metrics := newSubmissionMetrics(rs.MetricsRegistry())

			rs.AddPostHandler(c, nil, "", submitHandler(service, metrics))

			rs.AddGetHandler(c, nil, "", methodNotAllowedHandler)
			rs.AddPutHandler(c, nil, "", methodNotAllowedHandler)
			rs.AddDeleteHandler(c, nil, "", methodNotAllowedHandler)
			rs.AddPatchHandler(c, nil, "", methodNotAllowedHandler)
			rs.AddHeadHandler(c, nil, "", methodNotAllowedHandler)
			rs.AddOptionsHandler(c, nil, "", methodNotAllowedHandler)
		},
	)
}

func submitHandler(service ContactService, metrics *submissionMetrics) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		logger := router.GetLogger(ctx)
		client := ResolveClientIdentity(ctx.Request.Header)

		if err := service.Admit(ctx.Request.Context(), client.Identifier); err != nil {
			metrics.observe(outcomeRateLimited)
			return errorResult(err)
		}

		var req SubmitContactRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			logger.Error("Failed to bind contact request", "error", err, "details", apperrors.FormatValidationErrors(err, &req))
			metrics.observe(outcomeMalformed)
			return router.PlainResult(http.StatusInternalServerError, MessageInternalError, nil)
		}

		response, err := service.Submit(ctx.Request.Context(), &req, client)
		if err != nil {
			if apperrors.IsType(err, apperrors.ErrorTypeInvalidRequest) {
				metrics.observe(outcomeInvalid)
			} else {
				metrics.observe(outcomeFailed)
			}
			return errorResult(err)
		}

		metrics.observe(outcomeAccepted)
		return router.PlainResult(http.StatusOK, response.Message, map[string]any{"id": response.ID})
	}
}

func methodNotAllowedHandler(ctx *router.RequestContext) *router.ServiceResult {
	return errorResult(NewMethodNotAllowedError()).WithHeader("Allow", http.MethodPost)
}

func errorResult(err error) *router.ServiceResult {
	return router.PlainResult(
		apperrors.HTTPStatusCode(err),
		apperrors.GetHumanReadableMessage(err, MessageInternalError),
		nil,
	)
}
