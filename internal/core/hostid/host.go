// Package hostid works out the local hostname that metrics are reported
// under.
package hostid

import (
	"os"
	"strings"

	fqdn "github.com/Showmax/go-fqdn"
	log "github.com/sirupsen/logrus"
)

// Hostname returns the name of the local host, trying the fully qualified
// name first if useFullyQualifiedHost is set.  Returns an empty string if no
// name could be determined.
func Hostname(useFullyQualifiedHost bool, logger log.FieldLogger) string {
	if logger == nil {
		logger = log.StandardLogger()
	}

	var host string
	if useFullyQualifiedHost {
		var err error
		host, err = fqdn.FqdnHostname()
		if host == "unknown" || host == "localhost" || err != nil {
			logger.WithFields(log.Fields{
				"detail": err,
			}).Info("Error getting fully qualified hostname, using plain hostname")
			host = ""
		}
	}

	if host == "" {
		var err error
		host, err = os.Hostname()
		if err != nil {
			logger.WithError(err).Error("Error getting system simple hostname")
			return ""
		}
	}

	logger.Debugf("Using hostname %s", host)
	return host
}

// Short trims a hostname down to its first label, e.g. `lb01.example.org`
// becomes `lb01`.
func Short(host string) string {
	if i := strings.IndexByte(host, '.'); i >= 0 {
		return host[:i]
	}
	return host
}
