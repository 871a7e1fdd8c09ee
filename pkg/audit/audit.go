package audit

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/issuehub/issuehub/pkg/model"
)

// SDID constants for structured data IDs (RFC5424). 58231 is a placeholder
// private enterprise number.
const (
	SDIDActor   = "actor@58231"
	SDIDSubject = "subject@58231"
	SDIDAction  = "action@58231"
	SDIDClient  = "client@58231"
)

// FacilityAuthPriv is the syslog facility used for all audit lines
// (LOG_AUTHPRIV, security/authorization messages).
const FacilityAuthPriv = 10

// Severity levels matching syslog (RFC5424)
type Severity int

const (
	SeverityEmergency Severity = iota // 0
	SeverityAlert                     // 1
	SeverityCritical                  // 2
	SeverityError                     // 3
	SeverityWarning                   // 4
	SeverityNotice                    // 5
	SeverityInfo                      // 6
	SeverityDebug                     // 7
)

// Event is one auditable occurrence. Entry returns the persistent record
// without its sequence number or timestamp, which the Recorder assigns.
type Event interface {
	MessageID() string
	Message() string
	Severity() Severity
	StructuredData() map[string]map[string]string
	Entry() model.AuditEntry
}

// Logger writes audit events in RFC5424 syslog format.
type Logger struct {
	writer   io.Writer
	hostname string
	appName  string
	pid      int
}

// NewLogger creates an audit logger writing to stdout.
func NewLogger() *Logger {
	hostname, _ := os.Hostname()
	return &Logger{
		writer:   os.Stdout,
		hostname: hostname,
		appName:  "issuehub",
		pid:      os.Getpid(),
	}
}

// SetWriter sets the output writer for the logger.
func (l *Logger) SetWriter(w io.Writer) {
	l.writer = w
}

// Log writes one event as an RFC5424 syslog line.
// Format: <PRI>VERSION TIMESTAMP HOSTNAME APP-NAME PROCID MSGID SD MSG
func (l *Logger) Log(event Event) {
	pri := FacilityAuthPriv*8 + int(event.Severity())

	timestamp := time.Now().UTC().Format("2006-01-02T15:04:05.000Z")

	sd := formatStructuredData(event.StructuredData())
	if sd == "" {
		sd = "-"
	}

	hostname := l.hostname
	if hostname == "" {
		hostname = "-"
	}

	logLine := fmt.Sprintf("<%d>1 %s %s %s %d %s %s %s\n",
		pri,
		timestamp,
		hostname,
		l.appName,
		l.pid,
		event.MessageID(),
		sd,
		event.Message(),
	)

	_, _ = l.writer.Write([]byte(logLine))
}

// formatStructuredData formats the structured data according to RFC5424.
// Format: [sdid param1="value1" param2="value2"][sdid2 ...]
func formatStructuredData(sd map[string]map[string]string) string {
	if len(sd) == 0 {
		return ""
	}

	var parts []string
	for sdid, params := range sd {
		var paramParts []string
		paramParts = append(paramParts, sdid)
		for key, value := range params {
			paramParts = append(paramParts, fmt.Sprintf("%s=%s", key, escapeSDValue(value)))
		}
		parts = append(parts, "["+strings.Join(paramParts, " ")+"]")
	}
	return strings.Join(parts, "")
}

// escapeSDValue escapes special characters in structured data values per
// RFC5424 section 6.3.3.
func escapeSDValue(value string) string {
	value = strings.ReplaceAll(value, "\\", "\\\\")
	value = strings.ReplaceAll(value, "\"", "\\\"")
	value = strings.ReplaceAll(value, "]", "\\]")
	return "\"" + value + "\""
}

func outcome(allowed bool) string {
	if allowed {
		return "allowed"
	}
	return "denied"
}

func severityFor(allowed bool) Severity {
	if allowed {
		return SeverityInfo
	}
	return SeverityWarning
}
