package haproxy

import "github.com/signalfx/haproxy-monitor/internal/monitors/types"

const monitorType = "haproxy"

// Commands understood by the HAProxy admin socket.
const (
	CmdShowInfo = "show info"
	CmdShowStat = "show stat"
)

// ProcessNumKey is the `show info` field that identifies which HAProxy worker
// process answered on the socket.
const ProcessNumKey = types.ProcessNumKey

// DefaultIncludeInfo is the allow-list of `show info` fields kept in the
// namespace.
var DefaultIncludeInfo = []string{
	ProcessNumKey,
	"Idle_pct",
}

// DefaultIncludeStat is the allow-list of `show stat` columns kept in the
// namespace.  Any column not listed here is dropped.
var DefaultIncludeStat = []string{
	"qcur",
	"qmax",
	"scur",
	"smax",
	"slim",
	"stot",
	"bin",
	"bout",
	"dreq",
	"dresp",
	"ereq",
	"econ",
	"eresp",
	"wretr",
	"wredis",
	"status",
	"weight",
	"act",
	"bck",
	"chkfail",
	"chkdown",
	"downtime",
	"rate",
	"rate_max",
	"hrsp_1xx",
	"hrsp_2xx",
	"hrsp_3xx",
	"hrsp_4xx",
	"hrsp_5xx",
	"hrsp_other",
	"req_rate",
	"req_rate_max",
	"req_tot",
	"cli_abrt",
	"srv_abrt",
	"qtime",
	"ctime",
	"rtime",
	"ttime",
}

// The health states that get expanded into one 0/1 gauge each.
var statusValues = []string{"UP", "DOWN", "MAINT"}
