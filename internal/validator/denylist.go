package validator

import "regexp"

// denyPattern pairs a dangerous-pattern regular expression with the name of
// its pattern class. The class name is surfaced in rejection reasons so the
// caller can present actionable feedback.
type denyPattern struct {
	class string
	re    *regexp.Regexp
}

// denylist holds the fixed set of unconditionally dangerous patterns. All
// patterns are matched case-insensitively against the raw command. A match
// can never be rescued by an allowlist entry.
var denylist = []denyPattern{
	{
		class: "recursive or forced deletion",
		re:    regexp.MustCompile(`(?i)\brm\s+(-[a-z]*\s+)*-[a-z]*[rf]|\brm\s+--(recursive|force)\b`),
	},
	{
		class: "privilege escalation",
		re:    regexp.MustCompile(`(?i)(^|\s)(sudo|su)\b`),
	},
	{
		class: "system power or format operation",
		re:    regexp.MustCompile(`(?i)\b(shutdown|reboot|poweroff|halt|mkfs(\.[a-z0-9]+)?|fdisk|diskpart)\b`),
	},
	{
		class: "disk write via dd",
		re:    regexp.MustCompile(`(?i)\bdd\s+[^|]*of=/dev/`),
	},
	{
		class: "piping into a shell interpreter",
		re:    regexp.MustCompile(`(?i)\|\s*(sh|bash|zsh|dash|ksh|powershell)\b`),
	},
	{
		class: "output redirection to a device",
		re:    regexp.MustCompile(`(?i)>\s*/dev/(sd|hd|nvme|vd|xvd|mmcblk|disk)`),
	},
	{
		class: "remote fetch piped to execution",
		re:    regexp.MustCompile(`(?i)\b(curl|wget)\b[^|]*\|`),
	},
	{
		class: "dynamic code execution",
		re:    regexp.MustCompile(`(?i)(^|[\s;&|])(eval|exec|system)\b`),
	},
	{
		class: "permission widening",
		re:    regexp.MustCompile(`(?i)\bchmod\s+(-[a-z]+\s+)*0?777\b`),
	},
	{
		class: "forceful process termination",
		re:    regexp.MustCompile(`(?i)\bkill\s+(-[a-z]+\s+)*-9\b|\bpkill\b|\bkillall\b`),
	},
}

// matchDenylist returns the class of the first dangerous pattern matching
// the raw command, or "" when none match.
func matchDenylist(raw string) string {
	for _, p := range denylist {
		if p.re.MatchString(raw) {
			return p.class
		}
	}
	return ""
}
