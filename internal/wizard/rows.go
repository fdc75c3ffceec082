package wizard

import "fmt"

func (d *Draft) setTargetOrganCell(row int, field, value string) error {
	if row < 0 || row >= len(d.TargetOrganTest) {
		return fmt.Errorf("%w: target organ row %d of %d", ErrRowIndex, row, len(d.TargetOrganTest))
	}
	r := &d.TargetOrganTest[row]
	switch field {
	case "test":
		r.Test = value
	case "findings":
		r.Findings = value
	case "comments":
		r.Comments = value
	default:
		return fmt.Errorf("%w: target organ %q", ErrUnknownField, field)
	}
	return nil
}

func (d *Draft) setBiologicalCell(row int, field, value string) error {
	if row < 0 || row >= len(d.BiologicalMonitoring) {
		return fmt.Errorf("%w: biological monitoring row %d of %d", ErrRowIndex, row, len(d.BiologicalMonitoring))
	}
	r := &d.BiologicalMonitoring[row]
	switch field {
	case "determinant":
		r.Determinant = value
	case "result":
		r.Result = value
	default:
		return fmt.Errorf("%w: biological monitoring %q", ErrUnknownField, field)
	}
	return nil
}
