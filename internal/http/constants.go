package httpx

// CurrentPage constants define the page identifiers used in templates and navigation.
// These constants ensure consistency across UI handlers and template mapping.
const (
	PageHome          = "home"
	PageLoginRegister = "login-register"

	// Manager pages.
	PageManagerDashboard = "manager-dashboard"
	PageJobForm          = "job-form" // post and edit share one form
	PageApplicants       = "applicants"

	// Worker pages.
	PageWorkerDashboard = "worker-dashboard"
	PageWorkerJobs      = "worker-jobs"
	PageMyApplications  = "my-applications"
)

// Template paths used for loading templates in tests and production.
const (
	TemplatePathFromRoot = "frontend/templates"       // From project root
	TemplatePathFromTest = "../../frontend/templates" // From internal/http test files
)

// FormMode represents the mode of a form (create or edit).
type FormMode string

const (
	// FormModeEdit indicates the form is in edit mode.
	FormModeEdit FormMode = "edit"
	// FormModeCreate indicates the form is in create mode.
	FormModeCreate FormMode = "create"
)

//nolint:gochecknoglobals // static read-only lookup for templates
var contentTemplates = map[string]string{
	PageHome:             "home-content",
	PageLoginRegister:    "login-register-content",
	PageManagerDashboard: "manager-dashboard-content",
	PageJobForm:          "job-form-content",
	PageApplicants:       "applicants-content",
	PageWorkerDashboard:  "worker-dashboard-content",
	PageWorkerJobs:       "worker-jobs-content",
	PageMyApplications:   "my-applications-content",
}

// ContentTemplateMap returns the mapping from CurrentPage to template name.
func ContentTemplateMap() map[string]string { return contentTemplates }

// ContentTemplateFor returns the content template for the given CurrentPage.
// Falls back to the landing page for unknown pages.
func ContentTemplateFor(currentPage string) string {
	if name, ok := ContentTemplateMap()[currentPage]; ok {
		return name
	}
	return "home-content"
}
