package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"resala-backend/internal/flash"
	"resala-backend/internal/middleware"
	"resala-backend/internal/models"
)

// Page names, each backed by <name>.html rendered inside layout.html
const (
	pageLogin     = "login"
	pageHome      = "home"
	pageVisit     = "visit"
	pageAddFamily = "add_family"
	pageAdmin     = "admin"
)

var pageNames = []string{pageLogin, pageHome, pageVisit, pageAddFamily, pageAdmin}

// Messages shown to users
const (
	msgDataAccess       = "حدث خطأ أثناء قراءة البيانات. حاول مرة أخرى."
	msgLoginSuccess     = "تم تسجيل الدخول بنجاح!"
	msgLoginFailed      = "اسم المستخدم أو كلمة المرور غير صحيحة."
	msgLoginLimited     = "محاولات تسجيل دخول كثيرة. حاول بعد دقيقة."
	msgLogout           = "تم تسجيل الخروج بنجاح."
	msgFamilyNotFound   = "الأسرة رقم %d غير موجودة أو تحتوي على بيانات غير صالحة."
	msgQuantityInvalid  = "الكمية لـ %s يجب أن تكون رقمًا صحيحًا غير سالب."
	msgVisitRecorded    = "تم تسجيل الزيارة بنجاح! الإجمالي: %s"
	msgVisitFailed      = "خطأ في تسجيل الزيارة."
	msgInventoryWarning = "تم تسجيل الزيارة لكن تعذر تحديث المخزون."
	msgNameRequired     = "الاسم مطلوب."
	msgFamilyAdded      = "تمت إضافة أسرة جديدة برقم %d"
	msgFamilyFailed     = "خطأ في إضافة الأسرة."
)

// Page is the data every template receives through layout.html
type Page struct {
	Title   string
	User    *models.SessionUser
	Flashes []flash.Message
}

func (p *Page) page() *Page { return p }

type pageData interface {
	page() *Page
}

// Renderer executes the embedded page templates
type Renderer struct {
	pages map[string]*template.Template
}

var templateFuncs = template.FuncMap{
	"money": formatMoney,
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// NewRenderer parses layout.html together with every page from fsys
func NewRenderer(fsys fs.FS) (*Renderer, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.New(name).Funcs(templateFuncs).ParseFS(fsys, "layout.html", name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return &Renderer{pages: pages}, nil
}

// Render fills the common page fields and writes the page with the given status.
// Pending flash messages are consumed here.
func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, name string, data pageData) {
	tmpl, ok := rd.pages[name]
	if !ok {
		http.Error(w, "unknown page", http.StatusInternalServerError)
		return
	}

	p := data.page()
	if user, ok := middleware.GetUserFromContext(r.Context()); ok {
		p.User = user
	}
	p.Flashes = flash.Consume(w, r)

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Error().Err(err).Str("page", name).Msg("Failed to render page")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// currentUser returns the session user; guards ensure it is set on protected routes
func currentUser(r *http.Request) *models.SessionUser {
	if user, ok := middleware.GetUserFromContext(r.Context()); ok {
		return user
	}
	return &models.SessionUser{Username: "Unknown"}
}
