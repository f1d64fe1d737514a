package handlers

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/example/fashion-police/internal/pipeline"
	"github.com/example/fashion-police/internal/ranking"
	"github.com/example/fashion-police/internal/repository"
	"github.com/example/fashion-police/internal/session"
	"github.com/example/fashion-police/internal/usecase"
	"github.com/example/fashion-police/internal/vision"
)

// MaxUploadSize caps capture payloads at 10 MiB.
const MaxUploadSize = 10 << 20

type feedbackRequest struct {
	RecordID    string `json:"record_id" binding:"required"`
	ChosenStyle string `json:"chosen_style" binding:"required"`
}

type predictionDTO struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Confidence  float64 `json:"confidence"`
}

// RegisterRoutes wires the HTTP handlers to the Gin router.
func RegisterRoutes(router *gin.Engine, uc *usecase.ClassificationUseCase, sessions *session.Manager, authMiddleware gin.HandlerFunc) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/styles", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"styles": ranking.DefaultVocabulary})
	})

	authed := router.Group("/", authMiddleware)

	authed.POST("/classify", func(c *gin.Context) {
		data, ok := readCapture(c)
		if !ok {
			return
		}

		capture, err := vision.DecodeCapture(data)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "image could not be decoded"})
			return
		}

		recordID, result, err := uc.Classify(c.Request.Context(), "", capture)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, classificationBody(recordID, result))
	})

	authed.GET("/result/:id", func(c *gin.Context) {
		record, err := uc.GetResult(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, repository.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "result not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"record_id":       record.RecordID,
			"top_style":       record.TopStyle,
			"top_confidence":  record.TopConfidence,
			"predictions":     record.Predictions,
			"user_correction": record.UserCorrection,
			"is_correct":      record.IsCorrect,
			"predicted_at":    record.PredictedAt,
			"corrected_at":    record.CorrectedAt,
		})
	})

	authed.POST("/feedback", func(c *gin.Context) {
		var req feedbackRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "record_id and chosen_style are required"})
			return
		}

		if err := uc.SubmitCorrection(c.Request.Context(), req.RecordID, req.ChosenStyle); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "recorded"})
	})

	authed.GET("/stats", func(c *gin.Context) {
		summary, err := uc.GetStatsSummary(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, summary)
	})

	registerSessionRoutes(authed, sessions)
}

func registerSessionRoutes(group *gin.RouterGroup, sessions *session.Manager) {
	group.POST("/sessions", func(c *gin.Context) {
		c.JSON(http.StatusCreated, sessionBody(sessions.Start()))
	})

	group.GET("/sessions/:id", func(c *gin.Context) {
		snap, err := sessions.Get(c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, sessionBody(snap))
	})

	group.POST("/sessions/:id/capture/start", func(c *gin.Context) {
		snap, err := sessions.StartCapture(c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, sessionBody(snap))
	})

	group.POST("/sessions/:id/capture", func(c *gin.Context) {
		data, ok := readCapture(c)
		if !ok {
			return
		}

		snap, err := sessions.SubmitCapture(c.Request.Context(), c.Param("id"), data)
		if err != nil {
			writeError(c, err)
			return
		}

		body := sessionBody(snap)
		if snap.Preview != nil {
			body["preview"] = encodePNG(snap.Preview.DisplayOverlay)
		}
		c.JSON(http.StatusOK, body)
	})

	group.POST("/sessions/:id/retake", func(c *gin.Context) {
		snap, err := sessions.Retake(c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, sessionBody(snap))
	})

	group.POST("/sessions/:id/classify", func(c *gin.Context) {
		snap, err := sessions.Classify(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}

		body := sessionBody(snap)
		for k, v := range classificationBody(snap.RecordID, snap.Result) {
			body[k] = v
		}
		c.JSON(http.StatusOK, body)
	})

	group.POST("/sessions/:id/feedback/open", func(c *gin.Context) {
		snap, err := sessions.EnterFeedback(c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		body := sessionBody(snap)
		body["styles"] = ranking.DefaultVocabulary
		c.JSON(http.StatusOK, body)
	})

	group.POST("/sessions/:id/feedback", func(c *gin.Context) {
		var req struct {
			ChosenStyle string `json:"chosen_style" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "chosen_style is required"})
			return
		}

		snap, err := sessions.SubmitFeedback(c.Request.Context(), c.Param("id"), req.ChosenStyle)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, sessionBody(snap))
	})

	group.POST("/sessions/:id/feedback/close", func(c *gin.Context) {
		snap, err := sessions.CloseFeedback(c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, sessionBody(snap))
	})

	group.POST("/sessions/:id/restart", func(c *gin.Context) {
		snap, err := sessions.Restart(c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, sessionBody(snap))
	})
}

// readCapture pulls the multipart image out of the request, enforcing
// the upload cap and an image content type.
func readCapture(c *gin.Context) ([]byte, bool) {
	if c.Request.ContentLength > MaxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image exceeds upload limit"})
		return nil, false
	}

	file, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, multipart.ErrMessageTooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image exceeds upload limit"})
			return nil, false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return nil, false
	}
	if file.Size > MaxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image exceeds upload limit"})
		return nil, false
	}
	if contentType := file.Header.Get("Content-Type"); contentType != "" && !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "only image uploads are accepted"})
		return nil, false
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unable to open image"})
		return nil, false
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read image"})
		return nil, false
	}
	return data, true
}

func classificationBody(recordID string, result *pipeline.Result) gin.H {
	if result == nil || len(result.RankedStyles) == 0 {
		return gin.H{}
	}

	predictions := make([]predictionDTO, len(result.RankedStyles))
	for i, p := range result.RankedStyles {
		predictions[i] = predictionDTO{Name: p.Name, Description: p.Description, Confidence: p.Score}
	}

	return gin.H{
		"record_id":      recordID,
		"predictions":    predictions,
		"top_prediction": predictions[0],
		"overlay":        encodePNG(result.DisplayOverlay),
	}
}

func sessionBody(snap *session.Snapshot) gin.H {
	return gin.H{
		"session_id": snap.ID,
		"state":      snap.State,
		"correction": snap.Correction,
	}
}

func encodePNG(img image.Image) string {
	if img == nil {
		return ""
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return ""
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

// writeError maps the error taxonomy onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	var (
		decodeErr   *vision.DecodeError
		stateErr    *session.StateError
		validateErr *usecase.ValidationError
		persistErr  *repository.PersistenceError
	)

	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
	case errors.Is(err, repository.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
	case errors.As(err, &decodeErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "image could not be decoded"})
	case errors.As(err, &validateErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": validateErr.Error()})
	case errors.As(err, &stateErr):
		c.JSON(http.StatusConflict, gin.H{"error": stateErr.Error()})
	case errors.Is(err, session.ErrResultSuperseded):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &persistErr):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage failure"})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	}
}
