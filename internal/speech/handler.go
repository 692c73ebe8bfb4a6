package speech

import (
	"io"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/duotopia/backend/internal/apperr"
)

// Handler exposes the speech-assessment credential and upload
// endpoints over HTTP.
type Handler struct {
	issuer   *CredentialIssuer
	uploader *Uploader
}

// NewHandler constructs a Handler.
func NewHandler(issuer *CredentialIssuer, uploader *Uploader) *Handler {
	return &Handler{issuer: issuer, uploader: uploader}
}

// RegisterRoutes wires the credential and upload endpoints onto
// router. Both routes accept teacher and unauthenticated demo callers;
// requestPrincipal tells them apart. A student caller is handled as
// demo traffic (see requestPrincipal).
func (h *Handler) RegisterRoutes(router fiber.Router) {
	router.Post("/azure-speech/token", h.IssueToken)
	router.Post("/speech/upload-analysis", h.UploadAnalysis)
}

func (h *Handler) IssueToken(c *fiber.Ctx) error {
	principal := requestPrincipal(c)

	credential, err := h.issuer.IssueCredential(c.Context(), principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": credential})
}

func (h *Handler) UploadAnalysis(c *fiber.Ctx) error {
	principal := requestPrincipal(c)

	analysisID := c.FormValue("analysis_id")
	if analysisID == "" {
		return errAnalysisIDRequired()
	}
	analysisJSON := c.FormValue("analysis_json")
	if analysisJSON == "" {
		return errAnalysisJSONRequired()
	}
	latencyMS, _ := strconv.Atoi(c.FormValue("latency_ms"))

	var progressID *uint
	if raw := c.FormValue("progress_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return apperr.Validation("progress_id must be numeric", nil)
		}
		parsed := uint(id)
		progressID = &parsed
	}

	var audio []byte
	if fileHeader, err := c.FormFile("audio_file"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			return apperr.Validation("could not open uploaded audio_file", nil)
		}
		defer file.Close()
		audio, err = io.ReadAll(file)
		if err != nil {
			return apperr.Validation("could not read uploaded audio_file", nil)
		}
	}

	result, err := h.uploader.UploadAnalysis(c.Context(), UploadAnalysisRequest{
		Principal:    principal,
		Audio:        audio,
		AnalysisJSON: analysisJSON,
		LatencyMS:    latencyMS,
		AnalysisID:   analysisID,
		ProgressID:   progressID,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": result})
}

// requestPrincipal derives a Principal from the authenticated
// identity internal/middleware attaches to the request context,
// falling back to an IP-keyed demo principal for unauthenticated
// callers (§4.3.a "anonymous demo mode"). internal/middleware attaches
// only teacher_id; nothing sets a student_id local, so the student
// branch is never taken and a student's request is keyed by IP and
// counted against the demo quota.
func requestPrincipal(c *fiber.Ctx) Principal {
	if teacherID, ok := c.Locals("teacher_id").(uint); ok && teacherID != 0 {
		return NewTeacherPrincipal(teacherID)
	}
	if studentID, ok := c.Locals("student_id").(uint); ok && studentID != 0 {
		return NewStudentPrincipal(studentID)
	}
	return NewDemoPrincipal(c.IP())
}
