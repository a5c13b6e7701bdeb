package api

import (
	"html/template"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"vehicle-dashboard/models"
	"vehicle-dashboard/services"
)

const dashboardTitle = "Vehicle Listings Dashboard"

type chartLink struct {
	Title string
	URL   template.URL
}

type selectControl struct {
	Name     string
	Label    string
	Selected string
	Options  []string
}

type dashboardView struct {
	Title        string
	IncludeSmall bool
	Threshold    int
	Listings     int
	Filters      []models.FilterOption
	Controls     []selectControl
	Charts       []chartLink
	Error        string
}

var dashboardTemplate = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2em; }
form { display: flex; flex-wrap: wrap; gap: 0.75em; margin-bottom: 1.5em; }
label { display: flex; flex-direction: column; font-size: 0.85em; }
img { display: block; max-width: 100%; margin-bottom: 2em; }
.error { color: #b00020; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p>{{.Listings}} listings match the current filters.</p>
<form method="get" action="/">
<label><span>Include manufacturers with {{.Threshold}} or fewer ads</span>
<input type="checkbox" name="include_small" value="true" {{if .IncludeSmall}}checked{{end}}></label>
{{range .Filters}}<label><span>{{.Label}}</span>
<select name="{{.Column}}">{{$sel := .Selected}}{{range .Options}}<option value="{{.}}" {{if eq . $sel}}selected{{end}}>{{.}}</option>{{end}}</select></label>
{{end}}
{{range .Controls}}<label><span>{{.Label}}</span>
<select name="{{.Name}}">{{$sel := .Selected}}{{range .Options}}<option value="{{.}}" {{if eq . $sel}}selected{{end}}>{{.}}</option>{{end}}</select></label>
{{end}}
<button type="submit">Apply</button>
</form>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
{{range .Charts}}<h2>{{.Title}}</h2>
<img src="{{.URL}}" alt="{{.Title}}">
{{end}}
</body>
</html>
`))

// dashboard renders the controls as a GET form and embeds every chart as a
// PNG carrying the same query string.
func (h *Handler) dashboard(c *gin.Context) {
	view := dashboardView{Title: dashboardTitle, Threshold: h.dataset.Threshold()}

	q, err := parseQuery(c)
	if err != nil {
		view.Error = err.Error()
		c.HTML(statusFor(err), "dashboard", view)
		return
	}
	view.IncludeSmall = q.IncludeSmall

	filters, err := h.dataset.Options(q)
	if err != nil {
		view.Error = err.Error()
		c.HTML(statusFor(err), "dashboard", view)
		return
	}
	view.Filters = filters

	listings, err := h.dataset.Narrow(q)
	if err != nil {
		view.Error = err.Error()
		c.HTML(statusFor(err), "dashboard", view)
		return
	}
	view.Listings = len(listings)

	manufacturers := services.ManufacturerOptions(listings)
	withAll := append([]string{services.AllOption}, manufacturers...)
	m1, m2, err := services.ResolveManufacturerPair(manufacturers, c.Query("manufacturer_1"), c.Query("manufacturer_2"))
	if err != nil {
		m1, m2 = "", ""
	}
	yesNo := []string{"true", "false"}
	view.Controls = []selectControl{
		{Name: "manufacturer_1", Label: "Select manufacturer 1", Selected: m1, Options: manufacturers},
		{Name: "manufacturer_2", Label: "Select manufacturer 2", Selected: m2, Options: manufacturers},
		{Name: "normalize", Label: "Normalize histogram", Selected: c.DefaultQuery("normalize", "true"), Options: yesNo},
		{Name: "scatter_manufacturer", Label: "Select manufacturer for depreciation", Selected: c.DefaultQuery("scatter_manufacturer", services.AllOption), Options: withAll},
		{Name: "show_scatter", Label: "Show scatter plot", Selected: c.DefaultQuery("show_scatter", "true"), Options: yesNo},
		{Name: "trendline", Label: "Show trendline (OLS)", Selected: c.DefaultQuery("trendline", "true"), Options: yesNo},
		{Name: "days_manufacturer", Label: "Select manufacturer for listed days", Selected: c.DefaultQuery("days_manufacturer", services.AllOption), Options: withAll},
		{Name: "sort", Label: "Sort models", Selected: c.DefaultQuery("sort", services.SortAlphabetical), Options: []string{services.SortAlphabetical, services.SortAscending}},
	}

	params := c.Request.URL.Query()
	params.Set("format", "png")
	view.Charts = []chartLink{
		{Title: "Vehicle Types by Manufacturer", URL: chartURL("body-types", params)},
		{Title: "Vehicle Condition by Model Year", URL: chartURL("condition-years", params)},
		{Title: "Compare price distribution between manufacturers", URL: chartURL("price-distribution", params)},
		{Title: "Depreciation Rates of Price vs Mileage", URL: chartURL("depreciation", params)},
		{Title: "Average Listed Days by Model", URL: chartURL("days-listed", params)},
	}

	c.HTML(http.StatusOK, "dashboard", view)
}

func chartURL(name string, params url.Values) template.URL {
	return template.URL("/api/v1/charts/" + name + "?" + params.Encode())
}
