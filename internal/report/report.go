// Package report renders the USECHH 1 medical surveillance report and
// certificate of fitness as a PDF.
package report

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"ohsurveil/pkg/domain"
)

const (
	pageCenter  = 105.0
	rightMargin = 190.0
	leftMargin  = 15.0
	lineHeight  = 7.0
	topY        = 20.0
	breakY      = 280.0
	font        = "Helvetica"
)

// Document is a rendered report.
type Document struct {
	FileName string
	Pages    int
	Data     []byte
}

var whitespace = regexp.MustCompile(`\s+`)

// FileName is the download name for a record's report.
func FileName(record domain.PatientRecord) string {
	return whitespace.ReplaceAllString(record.PatientName, "_") + "_Report.pdf"
}

// Render produces the cover page, detail pages, the optional summary record
// page and the certificate of fitness. now stamps the report date.
func Render(record domain.PatientRecord, settings domain.ClinicSettings, now time.Time) (Document, error) {
	return render(record, settings, now, true)
}

func render(record domain.PatientRecord, settings domain.ClinicSettings, now time.Time, compress bool) (Document, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(compress)
	pdf.SetCreationDate(now)
	pdf.SetTitle("Medical Surveillance Report - "+record.PatientName, true)
	pdf.SetAutoPageBreak(false, 0)

	w := &writer{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	w.cover(record)
	w.details(record, settings, now)
	if record.SummaryRecord != nil {
		w.summary(*record.SummaryRecord)
	}
	w.certificate(record, settings, now)

	if err := pdf.Error(); err != nil {
		return Document{}, fmt.Errorf("render report: %w", err)
	}
	pages := pdf.PageCount()
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return Document{}, fmt.Errorf("write report: %w", err)
	}
	return Document{FileName: FileName(record), Pages: pages, Data: buf.Bytes()}, nil
}

type writer struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
	y   float64
}

func (w *writer) style(style string, size float64) {
	w.pdf.SetFont(font, style, size)
}

func (w *writer) text(x, y float64, s string) {
	w.pdf.Text(x, y, w.tr(latin1(s)))
}

func (w *writer) centered(y float64, s string) {
	s = latin1(s)
	w.pdf.Text(pageCenter-w.pdf.GetStringWidth(s)/2, y, w.tr(s))
}

// lines wraps s to width and draws it from (x, y), step apart. It returns
// the number of lines drawn.
func (w *writer) lines(x, y, width float64, s string, step float64) int {
	parts := w.pdf.SplitText(latin1(s), width)
	for i, line := range parts {
		w.pdf.Text(x, y+float64(i)*step, w.tr(line))
	}
	return len(parts)
}

// flow wraps s to width and draws it at x from the current offset, starting
// a new page whenever the next line would cross the break threshold.
func (w *writer) flow(x, width float64, s string, step float64) {
	for _, line := range w.pdf.SplitText(latin1(s), width) {
		w.breakIfNeeded(step)
		w.pdf.Text(x, w.y, w.tr(line))
		w.y += step
	}
}

// latin1 replaces runes the core fonts cannot encode.
func latin1(s string) string {
	return strings.Map(func(r rune) rune {
		if r > 0xff {
			return '?'
		}
		return r
	}, s)
}

func (w *writer) newPage() {
	w.pdf.AddPage()
	w.y = topY
}

func (w *writer) breakIfNeeded(space float64) {
	if w.y+space > breakY {
		w.newPage()
	}
}

func (w *writer) cover(r domain.PatientRecord) {
	w.newPage()
	w.style("B", 10)
	label := "USECHH 1"
	w.text(rightMargin-w.pdf.GetStringWidth(label), 20, label)
	w.style("B", 14)
	w.centered(40, "MEDICAL SURVEILLANCE PROGRAMME")
	w.style("B", 12)
	w.centered(50, "EXAMINATION FORM")
	w.style("", 10)
	w.centered(60, "Occupational Safety and Health Act 1994 (Act 514)")
	w.centered(66, "Use and Standard of exposure of chemicals")
	w.centered(71, "hazardous to health regulation 2000")
	w.centered(80, "Department of Occupational Safety and Health")
	w.centered(86, "Ministry of Human Resources")

	const labelX, valueX = 50.0, 90.0
	blank := "_______________________"
	y := 110.0
	w.style("", 10)
	w.text(labelX, y, "Workplace:")
	w.style("B", 10)
	w.text(valueX, y, orDefault(r.CompanyName, blank))
	y += 15
	w.style("", 10)
	w.text(labelX, y, "Chemical(s):")
	w.style("B", 10)
	w.text(valueX, y, orDefault(chemicalName(r), blank))

	y += 25
	w.style("", 10)
	w.centered(y, "Types of Medical Examination:")
	y += 15
	for _, exam := range []struct {
		label   string
		checked bool
	}{{"Pre-placement", false}, {"Periodic", true}, {"Return To Work", false}, {"Exit", false}} {
		w.checkbox(75, y, exam.label, exam.checked)
		y += 10
	}

	y += 15
	w.pdf.SetLineWidth(0.5)
	w.pdf.Rect(30, y, 150, 25, "D")
	w.style("", 9)
	disclaimer := "This documents is confidential and must be kept by the employer. It must be produced to the attendaing OHD upon request. Please write clearly."
	for i, line := range w.pdf.SplitText(disclaimer, 140) {
		w.centered(y+8+float64(i)*5, line)
	}
}

func (w *writer) checkbox(x, y float64, label string, checked bool) {
	w.pdf.Rect(x, y-4, 4, 4, "D")
	if checked {
		w.style("B", 10)
		w.text(x+0.8, y-0.5, "X")
	}
	w.style("", 10)
	w.text(x+10, y, label)
}

func (w *writer) sectionTitle(title string) {
	w.breakIfNeeded(15)
	w.style("B", 12)
	w.pdf.SetTextColor(0, 0, 0)
	w.text(leftMargin, w.y, strings.ToUpper(title))
	w.pdf.SetLineWidth(0.5)
	w.pdf.Line(leftMargin, w.y+2, 195, w.y+2)
	w.y += 10
	w.style("", 10)
}

func (w *writer) field(label, value string) {
	w.fieldStyled(label, value, "")
}

func (w *writer) fieldStyled(label, value, valueStyle string) {
	w.breakIfNeeded(lineHeight)
	w.style("B", 10)
	w.text(leftMargin, w.y, label+":")
	w.style(valueStyle, 10)
	w.flow(leftMargin+40, 180-leftMargin, orDefault(value, "N/A"), lineHeight)
}

func (w *writer) details(r domain.PatientRecord, settings domain.ClinicSettings, now time.Time) {
	w.newPage()
	w.style("B", 16)
	w.centered(w.y, "MEDICAL SURVEILLANCE REPORT")
	w.y += 10
	w.style("", 10)
	w.centered(w.y, "Report Date: "+displayDate(domain.FormatDate(now)))
	if settings.ClinicName != "" {
		w.y += 5
		w.centered(w.y, settings.ClinicName)
	}
	w.y += 15

	w.sectionTitle("1. Worker Particulars")
	w.field("Name", r.PatientName)
	w.field("Company", r.CompanyName)
	w.field("Visit Date", r.VisitDate)
	w.field("Age / Gender", fmt.Sprintf("%d / %s", r.Age, r.Gender))
	w.y += 5

	w.sectionTitle("2. Examination Summary")
	w.field("Temperature", strconv.FormatFloat(r.Temperature, 'f', -1, 64)+" °F")
	var bp, bmi string
	if r.PhysicalExam != nil {
		bp = r.PhysicalExam.VitalSigns.BloodPressure
		bmi = r.PhysicalExam.Anthropometry.BMI
	}
	w.field("Blood Pressure", bp)
	w.field("BMI", bmi)
	outcome := ""
	if r.Outcome != nil {
		outcome = string(*r.Outcome)
	}
	w.field("Overall Outcome", outcome)
	w.y += 5

	if c := r.MSConclusion; c != nil {
		w.sectionTitle("3. Conclusion of MS Findings")
		w.field("Chemical Exposure Hx", c.HistoryChemicalExposure)
		if c.HistoryChemicalExposureNotes != "" {
			w.field("Exposure Notes", c.HistoryChemicalExposureNotes)
		}
		w.field("Clinical Findings", c.ClinicalFindings)
		if c.ClinicalFindingsNotes != "" {
			w.field("Clinical Notes", c.ClinicalFindingsNotes)
		}
		w.field("Target Organ Results", c.TargetOrganResults)
		w.field("BEI Results", c.BEIResults)
		w.field("Fitness to Work", c.FitnessToWork)
		w.y += 5
	}

	if rec := r.Recommendation; rec != nil {
		w.breakIfNeeded(60)
		w.sectionTitle("4. Recommendation to Employer")
		notes := orDefault(rec.NotesToEmployer, "No specific recommendations.")
		if n := len(w.pdf.SplitText(latin1(notes), 170)); n <= 5 {
			w.pdf.SetDrawColor(150, 150, 150)
			w.pdf.Rect(leftMargin, w.y, 180, 30, "D")
			w.pdf.SetDrawColor(0, 0, 0)
			w.lines(20, w.y+5, 170, notes, 5)
			w.y += 40
		} else {
			w.y += 5
			w.flow(20, 170, notes, 5)
			w.y += 5
		}
		w.style("I", 9)
		w.centered(w.y, "The Implication of the above results has been explained by the OHD.")
		w.style("", 10)
		w.y += 10
		w.field("OHD Name", orDefault(rec.OHDName, settings.DoctorName))
		w.field("MMC No", rec.MMCNo)
		w.field("DOSH Reg No", rec.DOSHNo)
		w.field("Clinic", orDefault(rec.ClinicName, settings.ClinicName))
		w.field("Date", rec.Date)
		w.y += 5
	}
}

func (w *writer) summary(s domain.SummaryRecord) {
	w.newPage()
	w.sectionTitle("5. Summary Record of Employee")
	w.field("Worker Name", s.WorkerName)
	w.field("Chemical Name", s.ChemicalName)
	w.field("MS Date", s.MSDate)
	w.field("Health Effects", s.HealthEffectsCHTH)
	w.field("Target Organ", s.TargetOrgan)
	w.field("BEI Determinant", s.BEIDeterminant)
	w.field("Work Relatedness", s.WorkRelatedness)
	w.fieldStyled("CONCLUSION", s.Conclusion, "B")
	w.field("Date of MRP", s.MRPDate)
	w.field("OHD Signature/Reg", s.OHDDoshReg)
}

func (w *writer) certificate(r domain.PatientRecord, settings domain.ClinicSettings, now time.Time) {
	w.newPage()
	w.style("", 10)
	w.centered(30, "Occupational Safety & Health Act 1994")
	w.centered(35, "(Act 514)")
	w.centered(45, "Occupational Safety and Health (Use and Standard of Exposure of Chemicals")
	w.centered(50, "Hazardous to Health) Regulations 2000")
	w.style("B", 14)
	w.centered(65, "CERTIFICATE OF FITNESS")

	const col1, col2 = 25.0, 85.0
	y := 90.0
	w.style("", 10)
	w.text(col1, y, "Name of person examined")
	w.style("B", 10)
	w.text(col2, y, strings.ToUpper(r.PatientName))

	y += 15
	w.style("", 10)
	w.text(col1, y, "NRIC/Passport")
	w.style("B", 10)
	w.text(col2, y, orDefault(r.ICPassport, "N/A"))
	w.style("", 10)
	w.text(130, y, "Date of Birth")
	w.style("B", 10)
	w.text(155, y, strconv.Itoa(now.Year()-r.Age))
	w.style("", 10)
	w.text(175, y, "Sex")
	w.style("B", 10)
	w.text(185, y, sexCode(r.Gender))

	y += 15
	w.style("", 10)
	w.text(col1, y, "Name & Address of Employer")
	y += 10
	w.style("B", 10)
	w.text(col1, y, strings.ToUpper(r.CompanyName))
	if r.CompanyAddress != "" {
		y += 5
		w.style("B", 9)
		n := w.lines(col1, y, 160, strings.ToUpper(r.CompanyAddress), 5)
		y += float64(n) * 5
	} else {
		y += 10
	}

	fit := r.Outcome != nil && (*r.Outcome == domain.OutcomeFit || *r.Outcome == domain.OutcomeFitConditional)
	y += 10
	w.style("", 10)
	w.text(col1, y, "Examination/tests done and the results")
	w.style("B", 10)
	if fit {
		w.text(100, y, "NORMAL.")
	} else {
		w.text(100, y, "ABNORMAL.")
	}

	y += 20
	w.style("", 10)
	w.text(col1, y, "I hereby certify that I have examined the above-named person on   "+displayDate(r.VisitDate))
	y += 15
	fitness := "Unfit"
	if fit {
		fitness = "Fit"
	}
	chem := strings.ToUpper(orDefault(chemicalName(r), "_________________"))
	w.text(col1, y, fmt.Sprintf("and that he/she is %s for work which may expose him/her to   %s .", fitness, chem))

	y += 20
	w.text(col1, y, "Remarks (if any)")
	if r.Recommendation != nil && r.Recommendation.NotesToEmployer != "" {
		y += 7
		w.style("I", 10)
		n := w.lines(col1, y, 150, r.Recommendation.NotesToEmployer, 5)
		y += float64(n) * 5
	} else {
		y += 20
	}

	y += 30
	signDate := domain.FormatDate(now)
	if r.Recommendation != nil && r.Recommendation.Date != "" {
		signDate = r.Recommendation.Date
	}
	w.pdf.SetLineWidth(1)
	w.pdf.SetDrawColor(0, 0, 0)
	w.pdf.CurveBezierCubic(150, y-15, 160, y-25, 170, y-5, 180, y-15, "D")
	w.pdf.SetLineWidth(0.5)
	w.style("", 10)
	w.text(150, y, "Signature & Date")
	w.text(155, y+10, displayDate(signDate))
	if settings.DoctorName != "" {
		w.text(150, y+17, settings.DoctorName)
	}
	if settings.ClinicName != "" {
		w.style("", 8)
		w.text(150, y+22, settings.ClinicName)
	}
}

func chemicalName(r domain.PatientRecord) string {
	if r.SummaryRecord == nil {
		return ""
	}
	return r.SummaryRecord.ChemicalName
}

func sexCode(gender string) string {
	if gender == "Male" {
		return "M"
	}
	return "F"
}

// displayDate renders a calendar date as DD/MM/YYYY; anything unparseable
// is printed as given.
func displayDate(date string) string {
	t, err := time.Parse(domain.DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("02/01/2006")
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
