package extract

import (
	"github.com/jonathan/resume-extract/internal/textutil"
)

// BasicInfo holds the contact header of a resume
type BasicInfo struct {
	Name     Field
	Title    Field
	Email    Field
	Phone    Field
	LinkedIn Field
	GitHub   Field
	Location Field
	Address  Field
}

// BasicInfoRules are the profile knobs for basic-info extraction
type BasicInfoRules struct {
	// Window is how many leading lines are scanned for contact fields
	Window int
	// IsHeader, when set, stops the scan at the first section header and keeps a header
	// from being taken as the title.
	IsHeader func(line string) bool
}

// ExtractBasicInfo scans the first lines of a document. The first line is the name; the
// second is the title unless it looks like contact information. Every other field takes
// the first match of its pattern inside the window.
func ExtractBasicInfo(lines []string, rules BasicInfoRules) BasicInfo {
	var info BasicInfo
	if len(lines) == 0 {
		return info
	}

	window := rules.Window
	if window <= 0 || window > len(lines) {
		window = len(lines)
	}
	isHeader := func(line string) bool {
		return rules.IsHeader != nil && rules.IsHeader(line)
	}

	info.Name.Set(lines[0])
	if len(lines) > 1 && !textutil.LooksLikeContact(lines[1]) && !isHeader(lines[1]) {
		info.Title.Set(lines[1])
	}

	for i, line := range lines[:window] {
		if i > 0 && isHeader(line) {
			break
		}
		if v, ok := textutil.FindEmail(line); ok {
			info.Email.Set(v)
		}
		if v, ok := textutil.FindPhone(line); ok {
			info.Phone.Set(v)
		}
		if v, ok := textutil.FindLinkedIn(line); ok {
			info.LinkedIn.Set(v)
		}
		if v, ok := textutil.FindGitHub(line); ok {
			info.GitHub.Set(v)
		}
		if i == 0 {
			continue
		}
		if v, ok := textutil.FindAddress(line); ok {
			info.Address.Set(v)
		}
		for _, segment := range textutil.SplitContactLine(line) {
			if v, ok := textutil.FindLocation(segment); ok {
				info.Location.Set(v)
				break
			}
		}
	}

	return info
}
