package httpapi

import (
	"errors"
	"net/http"
	"time"

	"vendor-platform/internal/access"
	"vendor-platform/internal/audit"
	"vendor-platform/internal/auth"
	"vendor-platform/internal/profile"
	"vendor-platform/internal/reporting"
	"vendor-platform/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.
// Ownership checks live here; the services below perform no authorization.

type Handlers struct {
	Auth     *auth.Manager
	Profiles *profile.Service
	Audits   *audit.Service
	Access   *access.Service
	Reports  *reporting.Service
}

// --- Auth ---

type tokenRequest struct {
	UserID       string `json:"user_id"`
	Name         string `json:"name"`
	Organization string `json:"organization,omitempty"`
}

// IssueToken issues a JWT token pair.
//
// NOTE: This is a skeleton-only endpoint. Real systems must validate credentials.
func (h Handlers) IssueToken(c *gin.Context) {
	if h.Auth == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "auth not configured"})
		return
	}
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.UserID == "" || req.Name == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "user_id and name required"})
		return
	}
	pair, err := h.Auth.IssuePair(time.Now(), req.UserID, req.Name, req.Organization)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "token issuance failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": pair.AccessToken, "refresh_token": pair.RefreshToken})
}

// --- Profiles ---

func (h Handlers) CreateProfile(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	var in profile.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	p, err := h.Profiles.Create(c.Request.Context(), in, profile.HumanActor(principal.UserID, principal.Name))
	if err != nil {
		h.writeProfileError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

type importRequest struct {
	Source   string                `json:"source"`
	Profiles []profile.CreateInput `json:"profiles"`
}

type importFailure struct {
	TaxID string `json:"tax_id"`
	Error string `json:"error"`
}

// ImportProfiles bulk-creates unclaimed profiles on behalf of an external
// registry. Each row succeeds or fails independently; a duplicate tax id
// skips that row rather than aborting the batch.
func (h Handlers) ImportProfiles(c *gin.Context) {
	if _, ok := h.principal(c); !ok {
		return
	}
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.Source == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "source required"})
		return
	}
	if len(req.Profiles) == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "profiles required"})
		return
	}

	actor := profile.SystemActor(req.Source)
	imported := make([]profile.Profile, 0, len(req.Profiles))
	var failed []importFailure
	for _, in := range req.Profiles {
		p, err := h.Profiles.Create(c.Request.Context(), in, actor)
		if err != nil {
			failed = append(failed, importFailure{TaxID: in.TaxID, Error: importErrorMessage(err)})
			continue
		}
		imported = append(imported, p)
	}
	c.JSON(http.StatusOK, gin.H{
		"imported": imported,
		"failed":   failed,
	})
}

func importErrorMessage(err error) string {
	switch {
	case errors.Is(err, profile.ErrDuplicateTaxID):
		return "tax id already in use"
	case errors.Is(err, profile.ErrInvalidInput):
		return "company name and tax id are required"
	default:
		return "import failed"
	}
}

func (h Handlers) UpdateProfile(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if !h.requireOwner(c, principal, id) {
		return
	}
	var in profile.UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	p, err := h.Profiles.Update(c.Request.Context(), id, in, profile.HumanActor(principal.UserID, principal.Name))
	if err != nil {
		h.writeProfileError(c, err)
		return
	}
	h.Reports.Invalidate(c.Request.Context(), id)
	c.JSON(http.StatusOK, p)
}

func (h Handlers) ClaimProfile(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id := c.Param("id")
	p, err := h.Profiles.Claim(c.Request.Context(), id, profile.HumanActor(principal.UserID, principal.Name))
	if err != nil {
		h.writeProfileError(c, err)
		return
	}
	h.Reports.Invalidate(c.Request.Context(), id)
	c.JSON(http.StatusOK, p)
}

func (h Handlers) DeactivateProfile(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if !h.requireOwner(c, principal, id) {
		return
	}
	p, err := h.Profiles.Deactivate(c.Request.Context(), id, profile.HumanActor(principal.UserID, principal.Name))
	if err != nil {
		h.writeProfileError(c, err)
		return
	}
	h.Reports.Invalidate(c.Request.Context(), id)
	c.JSON(http.StatusOK, p)
}

func (h Handlers) GetMyProfile(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	p, found, err := h.Profiles.GetByUserID(c.Request.Context(), principal.UserID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "profile lookup failed"})
		return
	}
	if !found {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "no profile for principal"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h Handlers) GetProfile(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	p, found, err := h.Profiles.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "profile lookup failed"})
		return
	}
	if !found {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	h.respondProfileRead(c, principal, p)
}

func (h Handlers) GetProfileByTaxID(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	p, found, err := h.Profiles.GetByTaxID(c.Request.Context(), c.Param("tax_id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "profile lookup failed"})
		return
	}
	if !found {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	h.respondProfileRead(c, principal, p)
}

// respondProfileRead applies the non-owner view: banking fields are withheld
// and the read lands in the access ledger.
func (h Handlers) respondProfileRead(c *gin.Context, principal auth.Principal, p profile.Profile) {
	if p.UserID != principal.UserID {
		p.BankName = ""
		p.AccountNumber = ""
		p.RoutingNumber = ""
		h.logAccess(c, principal, p.ID, access.ActionViewedProfile)
	}
	c.JSON(http.StatusOK, p)
}

// --- Ledgers ---

func (h Handlers) ListAuditHistory(c *gin.Context) {
	if _, ok := h.principal(c); !ok {
		return
	}
	views, err := h.Reports.AuditHistory(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeReportError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": views})
}

func (h Handlers) ExportAuditHistory(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id := c.Param("id")
	p, found, err := h.Profiles.GetByID(c.Request.Context(), id)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "profile lookup failed"})
		return
	}
	if !found {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}

	format := c.DefaultQuery("format", string(audit.FormatJSON))
	res, err := h.Audits.Export(c.Request.Context(), audit.ProfileSummary{
		ID:          p.ID,
		CompanyName: p.CompanyName,
		TaxID:       p.TaxID,
	}, audit.ExportOptions{
		Format:    audit.Format(format),
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
	})
	if err != nil {
		h.writeAuditError(c, err)
		return
	}

	if p.UserID != principal.UserID {
		h.logAccess(c, principal, p.ID, access.ActionDownloadedData)
	}

	c.Header("Content-Disposition", `attachment; filename="`+res.Filename+`"`)
	c.Data(http.StatusOK, res.ContentType, res.Data)
}

func (h Handlers) ListAccessHistory(c *gin.Context) {
	if _, ok := h.principal(c); !ok {
		return
	}
	views, err := h.Reports.AccessHistory(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeReportError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": views})
}

func (h Handlers) GetCurrentProvenance(c *gin.Context) {
	if _, ok := h.principal(c); !ok {
		return
	}
	views, err := h.Reports.CurrentProvenance(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeReportError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"fields": views})
}

// --- helpers ---

func (h Handlers) principal(c *gin.Context) (auth.Principal, bool) {
	p, err := auth.PrincipalFrom(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return auth.Principal{}, false
	}
	return p, true
}

// requireOwner rejects mutations from anyone but the owning principal.
// Unclaimed profiles accept mutations only through Claim.
func (h Handlers) requireOwner(c *gin.Context, principal auth.Principal, id string) bool {
	p, found, err := h.Profiles.GetByID(c.Request.Context(), id)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "profile lookup failed"})
		return false
	}
	if !found {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return false
	}
	if p.UserID == "" || p.UserID != principal.UserID {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "not profile owner"})
		return false
	}
	return true
}

// logAccess appends to the access ledger best-effort: a ledger failure must
// not fail the read it describes.
func (h Handlers) logAccess(c *gin.Context, principal auth.Principal, profileID, action string) {
	err := h.Access.Append(c.Request.Context(), access.Entry{
		ProfileID:    profileID,
		AccessorID:   principal.UserID,
		AccessorName: principal.Name,
		AccessorOrg:  principal.Organization,
		Action:       action,
	})
	if err != nil {
		logger.FromGin(c).Warn("access log append failed", "profile_id", profileID, "action", action, "error", err)
	}
}

func (h Handlers) writeProfileError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, profile.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "profile not found"})
	case errors.Is(err, profile.ErrDuplicateTaxID):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "tax id already in use"})
	case errors.Is(err, profile.ErrAlreadyClaimed):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "profile already claimed"})
	case errors.Is(err, profile.ErrInvalidInput), errors.Is(err, profile.ErrInvalidActor):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.FromGin(c).Error("profile operation failed", "error", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (h Handlers) writeAuditError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, audit.ErrInvalidFormat), errors.Is(err, audit.ErrInvalidDateRange):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.FromGin(c).Error("audit export failed", "error", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (h Handlers) writeReportError(c *gin.Context, err error) {
	if errors.Is(err, reporting.ErrInvalidRequest) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "profile id required"})
		return
	}
	logger.FromGin(c).Error("report query failed", "error", err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
