package gazette

// FormatDate converts a YYYYMMDD date to dd/mm/yyyy for human-facing output.
// Malformed input is returned unchanged.
func FormatDate(date string) string {
	if len(date) != 8 {
		return date
	}
	return date[6:8] + "/" + date[4:6] + "/" + date[0:4]
}
