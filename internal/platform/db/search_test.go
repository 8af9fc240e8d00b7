package db

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestSearchQuery_NoParams(t *testing.T) {
	q := NewSearchQuery("donor", "id, name")
	q.OrderBy("created_at DESC")

	if got := q.CountSQL(); got != "SELECT COUNT(*) FROM donor WHERE 1=1" {
		t.Errorf("unexpected count SQL: %s", got)
	}

	data := q.DataSQL(20, 0)
	if !strings.Contains(data, "ORDER BY created_at DESC") {
		t.Errorf("expected order by clause, got %s", data)
	}
	if !strings.Contains(data, "LIMIT $1 OFFSET $2") {
		t.Errorf("expected limit/offset placeholders, got %s", data)
	}

	args := q.DataArgs(20, 0)
	if len(args) != 2 || args[0] != 20 || args[1] != 0 {
		t.Errorf("unexpected data args: %v", args)
	}
}

func TestSearchQuery_ApplyParams(t *testing.T) {
	configs := map[string]ParamConfig{
		"blood_group": {Type: ParamExact, Column: "blood_group"},
		"city":        {Type: ParamText, Column: "city"},
	}

	q := NewSearchQuery("donor", "id, name")
	q.ApplyParams(map[string]string{"blood_group": "O+"}, configs)

	count := q.CountSQL()
	if !strings.Contains(count, "blood_group = $1") {
		t.Errorf("expected exact clause, got %s", count)
	}
	if len(q.CountArgs()) != 1 || q.CountArgs()[0] != "O+" {
		t.Errorf("unexpected count args: %v", q.CountArgs())
	}

	data := q.DataSQL(10, 5)
	if !strings.Contains(data, "LIMIT $2 OFFSET $3") {
		t.Errorf("expected shifted placeholders, got %s", data)
	}
}

func TestSearchQuery_TextParam(t *testing.T) {
	configs := map[string]ParamConfig{
		"city": {Type: ParamText, Column: "city"},
	}

	q := NewSearchQuery("donor", "id")
	q.ApplyParams(map[string]string{"city": "Mum"}, configs)

	if !strings.Contains(q.CountSQL(), "city ILIKE $1") {
		t.Errorf("expected ILIKE clause, got %s", q.CountSQL())
	}
	if q.CountArgs()[0] != "Mum%" {
		t.Errorf("expected prefix pattern, got %v", q.CountArgs()[0])
	}
}

func TestSearchQuery_NumberPrefixes(t *testing.T) {
	tests := []struct {
		value  string
		wantOp string
		wantV  string
	}{
		{"gt5", ">", "5"},
		{"ge10", ">=", "10"},
		{"lt3", "<", "3"},
		{"le7", "<=", "7"},
		{"4", "=", "4"},
	}

	for _, tt := range tests {
		op, v := comparisonPrefix(tt.value)
		if op != tt.wantOp || v != tt.wantV {
			t.Errorf("comparisonPrefix(%q) = (%q, %q), want (%q, %q)",
				tt.value, op, v, tt.wantOp, tt.wantV)
		}
	}
}

func TestSearchQuery_UnknownParamIgnored(t *testing.T) {
	configs := map[string]ParamConfig{
		"blood_group": {Type: ParamExact, Column: "blood_group"},
	}

	q := NewSearchQuery("donor", "id")
	q.ApplyParams(map[string]string{"bogus": "x"}, configs)

	if q.CountSQL() != "SELECT COUNT(*) FROM donor WHERE 1=1" {
		t.Errorf("expected unknown param to be ignored, got %s", q.CountSQL())
	}
}

func TestSearchQuery_ApplySort(t *testing.T) {
	configs := map[string]ParamConfig{
		"created": {Type: ParamDate, Column: "created_at"},
		"age":     {Type: ParamNumber, Column: "age"},
	}

	q := NewSearchQuery("donor", "id")
	q.ApplySort("-created,age", "id ASC", configs)

	data := q.DataSQL(10, 0)
	if !strings.Contains(data, "ORDER BY created_at DESC, age ASC") {
		t.Errorf("unexpected sort clause: %s", data)
	}

	q2 := NewSearchQuery("donor", "id")
	q2.ApplySort("unknown", "id ASC", configs)
	if !strings.Contains(q2.DataSQL(10, 0), "ORDER BY id ASC") {
		t.Errorf("expected fallback to default order, got %s", q2.DataSQL(10, 0))
	}
}

func TestExtractSearchParams(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest("GET", "/api/v1/donors?blood_group=O%2B&city=Mumbai&limit=10&offset=5&sort=-created", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	params := ExtractSearchParams(c)
	if params["blood_group"] != "O+" {
		t.Errorf("expected blood_group O+, got %q", params["blood_group"])
	}
	if params["city"] != "Mumbai" {
		t.Errorf("expected city Mumbai, got %q", params["city"])
	}
	for _, control := range []string{"limit", "offset", "sort"} {
		if _, ok := params[control]; ok {
			t.Errorf("expected control param %q to be excluded", control)
		}
	}
}
