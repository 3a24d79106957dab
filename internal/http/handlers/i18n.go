package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/mathtutor-backend/internal/domain"
	"github.com/yungbote/mathtutor-backend/internal/http/response"
	"github.com/yungbote/mathtutor-backend/internal/i18n"
)

type I18nHandler struct{}

func NewI18nHandler() *I18nHandler { return &I18nHandler{} }

// GET /api/i18n/:lang
func (h *I18nHandler) Table(c *gin.Context) {
	lang, ok := domain.ParseLanguage(c.Param("lang"))
	if !ok {
		response.RespondError(c, http.StatusNotFound, "unknown_language", fmt.Errorf("unknown language %q", c.Param("lang")))
		return
	}
	dir := "ltr"
	if lang == domain.LanguageArabic {
		dir = "rtl"
	}
	response.RespondOK(c, gin.H{
		"language": lang,
		"dir":      dir,
		"strings":  i18n.Table(lang),
		"fonts":    domain.FontOptions,
	})
}
