package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ohsurveil/pkg/domain"
)

func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("OHSURVEIL_LOG_LEVEL", "error")
	t.Setenv("OHSURVEIL_INSIGHTS_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	return dir
}

func runCLI(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), args, &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

func TestRecordsListShowsSeededRecord(t *testing.T) {
	setup(t)
	out, _, code := runCLI(t, "records", "list")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "PATIENT")
	assert.Contains(t, out, "John Doe")
	assert.Contains(t, out, "Fit with Conditions")

	out, _, code = runCLI(t, "records", "list", "--search", "nobody")
	require.Equal(t, 0, code)
	assert.NotContains(t, out, "John Doe")
}

func TestRecordsShow(t *testing.T) {
	setup(t)
	out, _, code := runCLI(t, "records", "show", "1")
	require.Equal(t, 0, code)
	var record domain.PatientRecord
	require.NoError(t, json.Unmarshal([]byte(out), &record))
	assert.Equal(t, "John Doe", record.PatientName)

	_, errOut, code := runCLI(t, "records", "show", "404")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "not found")
}

func TestExamWithSQLitePersists(t *testing.T) {
	dir := setup(t)
	t.Setenv("OHSURVEIL_STORAGE_DRIVER", "sqlite")
	t.Setenv("OHSURVEIL_STORAGE_SQLITE_PATH", filepath.Join(dir, "registry.db"))

	out, errOut, code := runCLI(t, "exam", "--worker", "Jane Smith", "--weight", "70", "--height", "175",
		"--outcome", "Fit", "--symptom", "Cough", "--effect", "cns:Headache", "--chemical", "Toluene")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Jane Smith (Fit) BMI 22.9")
	id := strings.Fields(out)[1]

	out, _, code = runCLI(t, "records", "show", id)
	require.Equal(t, 0, code)
	var record domain.PatientRecord
	require.NoError(t, json.Unmarshal([]byte(out), &record))
	assert.Equal(t, []string{"Headache"}, record.ChemicalHealthEffects.CNS)
	assert.Equal(t, "Toluene", record.SummaryRecord.ChemicalName)
	assert.Equal(t, []domain.Hazard{domain.HazardDust}, record.Hazards)

	out, _, code = runCLI(t, "exam", "--edit", id, "--outcome", "pending")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "saved "+id+" Jane Smith (Pending)")

	out, _, _ = runCLI(t, "dashboard", "--window", "7")
	assert.Contains(t, out, "Completed: 1  Pending: 1")
}

func TestExamFlagValidation(t *testing.T) {
	setup(t)
	_, errOut, code := runCLI(t, "exam")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "exactly one of --worker or --edit")

	_, errOut, code = runCLI(t, "exam", "--worker", "John Doe", "--outcome", "Maybe")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, `unknown outcome "Maybe"`)

	_, errOut, code = runCLI(t, "exam", "--worker", "John Doe", "--effect", "Headache")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "want category:label")
}

func TestCompaniesAndWorkers(t *testing.T) {
	setup(t)
	out, _, code := runCLI(t, "companies", "list")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Global Manufacturing Ltd")
	assert.Contains(t, out, "SafeTech Solutions")

	out, _, code = runCLI(t, "companies", "add", "--name", "Acme Plating")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "added company")

	out, _, code = runCLI(t, "workers", "add", "--name", "Ali", "--company", "c2", "--hazard", "Noise")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Ali (SafeTech Solutions)")

	out, _, code = runCLI(t, "workers", "list")
	require.Equal(t, 0, code)
	assert.Less(t, strings.Index(out, "Jane Smith"), strings.Index(out, "John Doe"))

	_, _, code = runCLI(t, "workers", "add", "--name", "Nobody")
	assert.Equal(t, 1, code, "company is required")
}

func TestDashboard(t *testing.T) {
	setup(t)
	out, _, code := runCLI(t, "dashboard")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Completed: 1  Pending: 0  Fit: 1  Unfit: 0")
	assert.Contains(t, out, "Last 30 days: 1 records, 1 alerts")
	assert.Contains(t, out, "ALERT John Doe: high temperature (101.2°F)")

	_, errOut, code := runCLI(t, "dashboard", "--window", "14")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "unknown trend window")
}

func TestReportWritesPDF(t *testing.T) {
	dir := setup(t)
	out, _, code := runCLI(t, "report", "1", "--dir", dir)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "John_Doe_Report.pdf")
	data, err := os.ReadFile(filepath.Join(dir, "John_Doe_Report.pdf"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestReportClinicOverrides(t *testing.T) {
	dir := setup(t)
	out, _, code := runCLI(t, "report", "1", "--dir", dir, "--clinic", "Klinik Kesihatan Pekerja", "--doctor", "DR Aminah Yusof")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "John_Doe_Report.pdf")

	base := domain.ClinicSettings{ClinicName: "Klinik Dan Surgeri Abriel", DoctorName: "DR Louis Nethaniel Johnson"}
	cmd := reportCmd(nil)
	assert.Equal(t, base, clinicSettings(cmd, base, "", ""), "unset flags keep the configured settings")

	require.NoError(t, cmd.Flags().Set("doctor", "DR Aminah Yusof"))
	got := clinicSettings(cmd, base, "", "DR Aminah Yusof")
	assert.Equal(t, "Klinik Dan Surgeri Abriel", got.ClinicName)
	assert.Equal(t, "DR Aminah Yusof", got.DoctorName)
}

func TestExport(t *testing.T) {
	dir := setup(t)
	out, _, code := runCLI(t, "export", "--format", "csv")
	require.Equal(t, 0, code)
	lines, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	assert.Len(t, lines, 2)

	path := filepath.Join(dir, "registry.xlsx")
	out, _, code = runCLI(t, "export", "-o", path)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "wrote 1 records")
	_, err = os.Stat(path)
	require.NoError(t, err)

	out, _, code = runCLI(t, "export", "--format", "json", "--publish")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "published exports/registry-")

	_, _, code = runCLI(t, "export", "--format", "pdf")
	assert.Equal(t, 1, code)
}

func TestAttachWithFilesystemStore(t *testing.T) {
	dir := setup(t)
	t.Setenv("OHSURVEIL_BLOB_DRIVER", "fs")
	t.Setenv("OHSURVEIL_BLOB_FS_ROOT", filepath.Join(dir, "blobs"))
	file := filepath.Join(dir, "audiometry.pdf")
	require.NoError(t, os.WriteFile(file, []byte("%PDF-1.4 audiogram"), 0o600))

	out, errOut, code := runCLI(t, "attach", "1", file)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "attached audiometry.pdf to 1")
	assert.Contains(t, out, "http://local.blob/reports/1/")

	_, _, code = runCLI(t, "attach", "1", filepath.Join(dir, "missing.pdf"))
	assert.Equal(t, 1, code)
}

func TestInsights(t *testing.T) {
	setup(t)
	out, _, code := runCLI(t, "insights")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "No analysis available.")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"candidates": []any{map[string]any{"content": map[string]any{"parts": []any{map[string]any{
			"text": `{"summary":"One febrile worker.","riskLevel":"Low","findings":[{"title":"Fever","description":"Single case","concernLevel":"Low"}],"recommendations":["Monitor"]}`,
		}}}}}})
	}))
	t.Cleanup(srv.Close)
	t.Setenv("OHSURVEIL_INSIGHTS_BASE_URL", srv.URL)
	t.Setenv("OHSURVEIL_INSIGHTS_API_KEY", "test-key")

	out, _, code = runCLI(t, "insights")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Risk level: Low")
	assert.Contains(t, out, "[Low] Fever: Single case")
	assert.Contains(t, out, "  - Monitor")
}

func TestLogin(t *testing.T) {
	setup(t)
	out, _, code := runCLI(t, "login", "--email", "nur.aina@clinic.my", "--role", "company hr")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Signed in as nur aina (Company HR)")
	assert.NotContains(t, out, "Medical Records")

	_, errOut, code := runCLI(t, "login", "--email", "x@y.z", "--role", "Auditor")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "unknown role")
}

func TestMainUsesExitFunc(t *testing.T) {
	setup(t)
	var got int
	exitFunc = func(code int) { got = code }
	args := os.Args
	t.Cleanup(func() {
		exitFunc = os.Exit
		os.Args = args
	})
	os.Args = []string{"ohsurveil", "login", "--email", "a@b.c"}
	main()
	assert.Equal(t, 0, got)
}
