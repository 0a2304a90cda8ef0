package api

import (
	"net/http"

	"github.com/Domenick1991/flightclaim/internal/auth"
	"github.com/Domenick1991/flightclaim/internal/domain"
	"github.com/Domenick1991/flightclaim/internal/service/wizard"
	"github.com/gin-gonic/gin"
)

type WizardHandler struct {
	service wizard.WizardUseCase
}

type selectTypeRequest struct {
	ClaimType domain.ClaimType `json:"claim_type"`
}

type submitResponse struct {
	domain.SubmitResult
	Draft *wizard.View `json:"draft,omitempty"`
}

func NewWizardHandler(service wizard.WizardUseCase) *WizardHandler {
	return &WizardHandler{service: service}
}

func (h *WizardHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.start)
	router.GET("/:id", h.get)
	router.PUT("/:id/type", h.selectType)
	router.PUT("/:id/flight", h.flight)
	router.PUT("/:id/personal", h.personal)
	router.POST("/:id/back", h.back)
	router.GET("/:id/review", h.review)
	router.POST("/:id/submit", h.submit)
}

func (h *WizardHandler) start(c *gin.Context) {
	draft, err := h.service.Start(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, wizard.NewView(draft))
}

func (h *WizardHandler) get(c *gin.Context) {
	view, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *WizardHandler) selectType(c *gin.Context) {
	var req selectTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.advance(c, wizard.SelectTypeInput{ClaimType: req.ClaimType})
}

func (h *WizardHandler) flight(c *gin.Context) {
	var req domain.FlightInfo
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.advance(c, wizard.FlightInput{Flight: req})
}

func (h *WizardHandler) personal(c *gin.Context) {
	var req domain.PersonalInfo
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.advance(c, wizard.PersonalInput{Personal: req})
}

func (h *WizardHandler) advance(c *gin.Context, in wizard.Input) {
	draft, err := h.service.Advance(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, wizard.NewView(draft))
}

func (h *WizardHandler) back(c *gin.Context) {
	draft, err := h.service.Back(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, wizard.NewView(draft))
}

func (h *WizardHandler) review(c *gin.Context) {
	review, err := h.service.Review(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

func (h *WizardHandler) submit(c *gin.Context) {
	outcome, err := h.service.Submit(c.Request.Context(), c.Param("id"), auth.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	result := outcome.Result
	if !result.Success {
		status := http.StatusBadGateway
		if result.Stage == domain.StageAuth {
			status = http.StatusUnauthorized
		}
		c.JSON(status, submitResponse{SubmitResult: result})
		return
	}
	c.JSON(http.StatusOK, submitResponse{SubmitResult: result, Draft: wizard.NewView(outcome.Draft)})
}
