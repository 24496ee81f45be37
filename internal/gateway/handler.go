package gateway

import (
	"net"
	"net/http"

	"github.com/gin-gonic/gin"

	"paygate/internal/constants"
	"paygate/internal/logger"
	"paygate/internal/protocol"
	"paygate/internal/transaction"
	"paygate/pkg/errors"
)

type Handler struct {
	Service *Service
	Logger  logger.Logger
}

func NewHandler(service *Service, log logger.Logger) *Handler {
	return &Handler{
		Service: service,
		Logger:  log,
	}
}

func (h *Handler) HandleError(c *gin.Context, err error) {
	h.Logger.Errorw("Request error", "error", err, "path", c.Request.URL.Path)

	status := errors.ToHTTPStatus(err)
	response := errors.ToErrorResponse(err)

	c.JSON(status, response)
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		payments := v1.Group("/payments")
		{
			payments.POST("/form", h.BuildForm)
		}
	}

	// Provider-facing endpoints. The paths are registered at the
	// provider side and must stay stable.
	provider := router.Group("/payments")
	{
		provider.GET("/return", h.PaymentReturn)
		provider.POST("/notify", h.PaymentNotify)
	}
}

// BuildForm returns the signed hidden fields for a hosted payment
// page form, plus the URL the form must be posted to.
func (h *Handler) BuildForm(c *gin.Context) {
	var req BuildFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errors.ToErrorResponse(errors.ErrMissingField.WithCause(err)))
		return
	}

	fields, err := h.Service.BuildPaymentFormFields(c.Request.Context(), req.ToOrder())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, BuildFormResponse{
		Action: h.Service.ActionURL(),
		Fields: fields,
	})
}

// PaymentReturn handles the shopper's browser coming back from the
// payment page.
func (h *Handler) PaymentReturn(c *gin.Context) {
	fields := protocol.FieldsFromValues(c.Request.URL.Query())

	result, err := h.Service.HandlePaymentFeedback(
		c.Request.Context(),
		transaction.OriginRedirect,
		fields,
		h.clientIP(c),
	)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// PaymentNotify handles server-to-server payment notifications. The
// provider expects the accepted body within its delivery timeout and
// keeps retrying until it gets one.
func (h *Handler) PaymentNotify(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		c.JSON(http.StatusBadRequest, errors.ToErrorResponse(errors.ErrMissingField.WithCause(err)))
		return
	}
	fields := protocol.FieldsFromValues(c.Request.PostForm)

	decision, err := h.Service.AssessNotificationRelevance(c.Request.Context(), c.Request.Method, fields)
	if err != nil {
		// A failed duplicate lookup must not acknowledge, the
		// provider will redeliver.
		h.HandleError(c, err)
		return
	}

	if !decision.Acknowledge {
		c.Status(http.StatusOK)
		return
	}

	if decision.Process {
		reference := fields.Get(constants.FieldPSPReference)

		claimed, err := h.Service.ClaimReference(c.Request.Context(), reference)
		if err != nil {
			h.HandleError(c, err)
			return
		}

		if claimed {
			if _, err := h.Service.HandlePaymentFeedback(
				c.Request.Context(),
				transaction.OriginNotification,
				fields,
				"",
			); err != nil {
				if releaseErr := h.Service.ReleaseReference(c.Request.Context(), reference); releaseErr != nil {
					h.Logger.Errorw("failed to release reference claim",
						"psp_reference", reference, "error", releaseErr)
				}
				h.HandleError(c, err)
				return
			}
		} else {
			h.Logger.Infow("reference already claimed, acknowledging without processing",
				"psp_reference", reference)
		}
	}

	c.String(http.StatusOK, constants.AcceptedNotification)
}

// clientIP reads the original shopper address from the configured
// proxy header, falling back to the connection address. An
// unparsable value is dropped rather than recorded.
func (h *Handler) clientIP(c *gin.Context) string {
	ip := ""
	if header := h.Service.IPAddressHeader(); header != "" {
		ip = c.GetHeader(header)
	}
	if ip == "" {
		ip = c.ClientIP()
	}

	if net.ParseIP(ip) == nil {
		h.Logger.Warnw("discarding invalid client address", "ip_address", ip)
		return ""
	}
	return ip
}
