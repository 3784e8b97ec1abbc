package handler

import (
	"errors"

	"github.com/Innayatullahh/skydragon-test/dto"
	"github.com/Innayatullahh/skydragon-test/middleware"
	"github.com/Innayatullahh/skydragon-test/usecase"
	"github.com/Innayatullahh/skydragon-test/utils"
	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MeetingHandler struct {
	service *usecase.MeetingService
	logger  hclog.Logger
}

func NewMeetingHandler(service *usecase.MeetingService, logger hclog.Logger) *MeetingHandler {
	utils.InitValidator()
	return &MeetingHandler{
		service: service,
		logger:  logger.Named("http"),
	}
}

func (h *MeetingHandler) Register(rg *gin.RouterGroup) {
	meetings := rg.Group("/meetings")
	meetings.GET("", h.List)
	meetings.POST("", h.Create)
	meetings.POST("/batch-delete", h.BatchDelete)
	meetings.GET("/:id", h.Get)
	meetings.DELETE("/:id", h.Delete)
}

func (h *MeetingHandler) List(c *gin.Context) {
	views, err := h.service.List(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		if errors.Is(err, usecase.ErrValidation) {
			middleware.TrackError("validation")
			utils.BadRequest(c, "Invalid filter", err.Error())
			return
		}
		h.storeFailure(c, "list", err)
		utils.InternalError(c, "Failed to fetch meetings", err.Error())
		return
	}

	middleware.TrackMeetingOperation("list")
	utils.Success(c, views)
}

func (h *MeetingHandler) Get(c *gin.Context) {
	view, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, usecase.ErrMeetingNotFound) {
			utils.NotFound(c, "Meeting not found")
			return
		}
		h.storeFailure(c, "get", err)
		utils.InternalError(c, "Failed to fetch meeting", err.Error())
		return
	}

	middleware.TrackMeetingOperation("get")
	utils.Success(c, view)
}

func (h *MeetingHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req dto.CreateMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.TrackError("validation")
		utils.BadRequest(c, "Invalid request body", err.Error())
		return
	}

	record, err := h.service.Create(c.Request.Context(), req, actor)
	if err != nil {
		if errors.Is(err, usecase.ErrValidation) {
			middleware.TrackError("validation")
		} else {
			h.storeFailure(c, "create", err)
		}
		utils.BadRequest(c, "Failed to create meeting", err.Error())
		return
	}

	middleware.TrackMeetingOperation("create")
	utils.Created(c, "Meeting created successfully", record)
}

func (h *MeetingHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	record, err := h.service.SoftDelete(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		if errors.Is(err, usecase.ErrMeetingNotFound) {
			utils.NotFound(c, "Meeting not found")
			return
		}
		h.storeFailure(c, "delete", err)
		utils.InternalError(c, "Failed to delete meeting", err.Error())
		return
	}

	middleware.TrackMeetingOperation("delete")
	utils.SuccessMessage(c, "Meeting deleted successfully", record)
}

// BatchDelete expects the body to be a JSON array of meeting ids.
func (h *MeetingHandler) BatchDelete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var ids []string
	if err := c.ShouldBindJSON(&ids); err != nil {
		middleware.TrackError("validation")
		utils.BadRequest(c, "Request body must be an array of meeting ids", err.Error())
		return
	}

	result, err := h.service.SoftDeleteMany(c.Request.Context(), ids, actor)
	if err != nil {
		h.storeFailure(c, "batch_delete", err)
		utils.InternalError(c, "Failed to delete meetings", err.Error())
		return
	}

	middleware.TrackMeetingOperation("batch_delete")
	utils.SuccessMessage(c, "Meetings deleted successfully", result)
}

// actor builds the caller identity from what AuthMiddleware stored.
func (h *MeetingHandler) actor(c *gin.Context) (usecase.Actor, bool) {
	userID, err := primitive.ObjectIDFromHex(c.GetString(middleware.ContextUserID))
	if err != nil {
		utils.Unauthorized(c, "Invalid user ID in token")
		return usecase.Actor{}, false
	}
	return usecase.Actor{
		UserID:    userID,
		Client:    utils.ClientSummary(c.Request.UserAgent()),
		RequestID: c.GetString(middleware.ContextRequestID),
	}, true
}

func (h *MeetingHandler) storeFailure(c *gin.Context, op string, err error) {
	middleware.TrackError("store")
	var storeErr *usecase.StoreError
	if errors.As(err, &storeErr) {
		h.logger.Error("store operation failed",
			"op", op,
			"store_op", storeErr.Op,
			"request_id", c.GetString(middleware.ContextRequestID),
			"error", storeErr.Err,
		)
		return
	}
	h.logger.Error("meeting operation failed", "op", op, "request_id", c.GetString(middleware.ContextRequestID), "error", err)
}
