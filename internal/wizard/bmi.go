package wizard

import (
	"fmt"
	"strconv"
	"strings"
)

// ComputeBMI returns weight(kg) / (height(m))² with one decimal. ok is false
// when either input is not a positive number.
func ComputeBMI(weight, height string) (bmi string, ok bool) {
	w, err := strconv.ParseFloat(strings.TrimSpace(weight), 64)
	if err != nil || w <= 0 {
		return "", false
	}
	h, err := strconv.ParseFloat(strings.TrimSpace(height), 64)
	if err != nil || h <= 0 {
		return "", false
	}
	m := h / 100
	return fmt.Sprintf("%.1f", w/(m*m)), true
}

// refreshBMI rewrites the stored BMI when it differs from the computed one.
// Invalid inputs leave the last value in place.
func (d *Draft) refreshBMI() bool {
	a := &d.PhysicalExam.Anthropometry
	bmi, ok := ComputeBMI(a.Weight, a.Height)
	if !ok || bmi == a.BMI {
		return false
	}
	a.BMI = bmi
	return true
}
