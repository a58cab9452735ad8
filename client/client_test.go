package client

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"cutplot/models"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return New(srv.URL, 5*time.Second), srv
}

func TestSendPackage(t *testing.T) {
	var gotBody map[string]string
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/gcode/send-all-3mf" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{"success": true, "filename": "part.3mf"})
	}))
	defer srv.Close()

	out, err := c.SendPackage("G0 X0\n", "part.gcode")
	if err != nil {
		t.Fatalf("SendPackage: %v", err)
	}
	if out.Filename != "part.3mf" {
		t.Errorf("filename = %q", out.Filename)
	}

	wantBody := map[string]string{"gcode": "G0 X0\n", "filename": "part.gcode"}
	if diff := cmp.Diff(wantBody, gotBody); diff != "" {
		t.Errorf("request body mismatch (-want +got):\n%s", diff)
	}
}

func TestSendPackageServerError(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "printer busy"})
	}))
	defer srv.Close()

	_, err := c.SendPackage("G0\n", "a.gcode")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("want *APIError, got %v", err)
	}
	if apiErr.Error() != "printer busy" {
		t.Errorf("message = %q", apiErr.Error())
	}
}

func TestBareFailureGetsGenericMessage(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": false})
	}))
	defer srv.Close()

	_, err := c.SendPackage("G0\n", "a.gcode")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("want *APIError, got %v", err)
	}
	if got, want := apiErr.Error(), "/api/gcode/send-all-3mf: server reported failure"; got != want {
		t.Errorf("message = %q, want %q", got, want)
	}
}

// The two server failure shapes must normalize to the same message.
func TestErrorShapesNormalize(t *testing.T) {
	asList, srv1 := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": false, "errors": []string{"line 3: bad word", "line 9: bad word"}})
	}))
	defer srv1.Close()
	asString, srv2 := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "line 3: bad word; line 9: bad word"})
	}))
	defer srv2.Close()

	_, err1 := asList.SendRaw("G0\n")
	_, err2 := asString.SendRaw("G0\n")
	if err1 == nil || err2 == nil {
		t.Fatal("both calls should fail")
	}
	if err1.Error() != err2.Error() {
		t.Errorf("normalized messages differ: %q vs %q", err1.Error(), err2.Error())
	}
}

func TestSendRaw(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if _, ok := body["filename"]; ok {
			t.Error("send-all must not carry a filename")
		}
		json.NewEncoder(w).Encode(map[string]any{"success": true, "sent_count": 42})
	}))
	defer srv.Close()

	out, err := c.SendRaw("G0 X0\n")
	if err != nil {
		t.Fatalf("SendRaw: %v", err)
	}
	if out.SentCount != 42 {
		t.Errorf("sent_count = %d", out.SentCount)
	}
}

func TestCreatePackage(t *testing.T) {
	payload := []byte("PK\x03\x04fakezip")
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write(payload)
	}))
	defer srv.Close()

	data, err := c.CreatePackage("G0\n", "part.gcode")
	if err != nil {
		t.Fatalf("CreatePackage: %v", err)
	}
	if diff := cmp.Diff(payload, data); diff != "" {
		t.Errorf("body mismatch (-want +got):\n%s", diff)
	}
}

func TestCreatePackageRefusal(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "no slicer available"})
	}))
	defer srv.Close()

	_, err := c.CreatePackage("G0\n", "part.gcode")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("want *APIError, got %v", err)
	}
	if apiErr.Error() != "no slicer available" {
		t.Errorf("message = %q", apiErr.Error())
	}
}

func TestConvert(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("file_type"); got != "svg" {
			t.Errorf("file_type = %q", got)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		file.Close()
		if header.Filename != "drawing.svg" {
			t.Errorf("upload name = %q", header.Filename)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true, "gcode": "G0 X0\nG1 X10\n", "line_count": 3, "original_filename": "drawing.svg",
		})
	}))
	defer srv.Close()

	out, err := c.Convert("drawing.svg", []byte("<svg/>"), "svg")
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if out.GCode == "" || out.LineCount != 3 {
		t.Errorf("unexpected response: %+v", out)
	}
}

func TestConvertFailureLeavesCallerToKeepState(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "unparseable SVG"})
	}))
	defer srv.Close()

	out, err := c.Convert("bad.svg", []byte("nope"), "svg")
	if err == nil {
		t.Fatal("Convert should fail")
	}
	if out.GCode != "" {
		t.Errorf("failed convert must not carry gcode, got %q", out.GCode)
	}
}

func TestValidateFindingsAreNotErrors(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.ValidateResponse{
			Valid:     false,
			Errors:    []string{"line 2: unknown word Q5"},
			Warnings:  []string{"line 7: feed rate missing"},
			LineCount: 9,
		})
	}))
	defer srv.Close()

	out, err := c.Validate("G0\nQ5\n")
	if err != nil {
		t.Fatalf("Validate transport error: %v", err)
	}
	if out.Valid {
		t.Error("verdict should be invalid")
	}
	if len(out.Errors) != 1 || len(out.Warnings) != 1 {
		t.Errorf("findings = %+v", out)
	}
}

func TestFormat(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": true, "formatted": "G0 X0\nG1 X10\n"})
	}))
	defer srv.Close()

	got, err := c.Format("g0 x0\ng1 x10\n")
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if got != "G0 X0\nG1 X10\n" {
		t.Errorf("formatted = %q", got)
	}
}

func TestStatus(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/status" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer srv.Close()

	ok, err := c.Status()
	if err != nil || !ok {
		t.Fatalf("Status = %v, %v", ok, err)
	}
}

func TestStatusDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	c := New(srv.URL, time.Second)
	srv.Close()

	ok, err := c.Status()
	if ok || err == nil {
		t.Fatal("closed server should report disconnected")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Error("transport failure must not be an APIError")
	}
}
