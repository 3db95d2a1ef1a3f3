package devices

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/go-routeros/routeros/v3"
	"github.com/go-routeros/routeros/v3/proto"
	"github.com/pkg/errors"
	"github.com/routerops/radman/internal/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProbeResult is the outcome of a connectivity probe. Online means the
// device accepted the API login; a false Online with a nil error means
// the device was reachable but rejected the session.
type ProbeResult struct {
	Online   bool
	Identity string
}

// DeviceProbe checks whether a device's management API is reachable.
type DeviceProbe interface {
	Probe(ctx context.Context, device *domain.NetDevice) (ProbeResult, error)
}

// Snapshot is one full telemetry reading collected from a device.
type Snapshot struct {
	System     *domain.DeviceSystemMetric
	Interfaces []domain.DeviceInterfaceMetric
	Online     []domain.DeviceOnlineUser
}

// Collector pulls a telemetry snapshot from a device.
type Collector interface {
	Collect(ctx context.Context, device *domain.NetDevice) (*Snapshot, error)
}

// RouterOSClient probes and polls RouterOS devices over the API port.
type RouterOSClient struct {
	timeout time.Duration
}

func NewRouterOSClient(timeout time.Duration) *RouterOSClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RouterOSClient{timeout: timeout}
}

func (c *RouterOSClient) dial(device *domain.NetDevice) (*routeros.Client, error) {
	port := device.ApiPort
	if port <= 0 {
		port = domain.DefaultApiPort
	}
	addr := net.JoinHostPort(device.Ipaddr, strconv.Itoa(port))
	client, err := routeros.DialTimeout(addr, device.Username, device.Password, c.timeout)
	if err != nil {
		return nil, errors.Wrapf(err, "dial %s", addr)
	}
	return client, nil
}

// Probe dials the device API and reads the system identity. A rejected
// login is reported as reachable-but-offline; transport failures are
// returned as errors for the registry to map.
func (c *RouterOSClient) Probe(ctx context.Context, device *domain.NetDevice) (ProbeResult, error) {
	client, err := c.dial(device)
	if err != nil {
		var devErr *routeros.DeviceError
		if errors.As(err, &devErr) {
			// The API answered but refused the session.
			return ProbeResult{Online: false}, nil
		}
		return ProbeResult{}, err
	}
	defer client.Close()

	result := ProbeResult{Online: true}
	reply, err := client.Run("/system/identity/print")
	if err == nil && len(reply.Re) > 0 {
		if name, ok := reply.Re[0].Map["name"]; ok {
			result.Identity = name
		}
	}
	return result, nil
}

// Collect pulls resource usage, interface counters and active PPP
// sessions in a single API session.
func (c *RouterOSClient) Collect(ctx context.Context, device *domain.NetDevice) (*Snapshot, error) {
	client, err := c.dial(device)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	now := time.Now()
	snapshot := &Snapshot{}

	reply, err := client.Run("/system/resource/print")
	if err != nil {
		return nil, errors.Wrap(err, "read system resource")
	}
	if len(reply.Re) > 0 {
		snapshot.System = parseSystemResource(reply.Re[0], device.ID, now)
	}

	reply, err = client.Run("/interface/print")
	if err != nil {
		return nil, errors.Wrap(err, "read interfaces")
	}
	for _, re := range reply.Re {
		snapshot.Interfaces = append(snapshot.Interfaces, parseInterface(re, device.ID, now))
	}

	reply, err = client.Run("/ppp/active/print")
	if err != nil {
		return nil, errors.Wrap(err, "read active sessions")
	}
	for _, re := range reply.Re {
		snapshot.Online = append(snapshot.Online, parseActiveSession(re, device.ID, now))
	}

	zap.L().Debug("device snapshot collected",
		zap.Int64("device_id", device.ID),
		zap.Int("interfaces", len(snapshot.Interfaces)),
		zap.Int("sessions", len(snapshot.Online)))
	return snapshot, nil
}

var bytesPerMb = decimal.NewFromInt(1024 * 1024)

func parseSystemResource(sentence *proto.Sentence, deviceId int64, now time.Time) *domain.DeviceSystemMetric {
	metric := &domain.DeviceSystemMetric{
		DeviceId:    deviceId,
		Uptime:      sentence.Map["uptime"],
		CollectedAt: now,
	}
	metric.CpuPercent = parseCounter(sentence.Map["cpu-load"]).Round(2)

	total := parseCounter(sentence.Map["total-memory"])
	free := parseCounter(sentence.Map["free-memory"])
	metric.MemTotal = total.Div(bytesPerMb).Round(2)
	metric.MemUsed = total.Sub(free).Div(bytesPerMb).Round(2)
	return metric
}

func parseInterface(sentence *proto.Sentence, deviceId int64, now time.Time) domain.DeviceInterfaceMetric {
	return domain.DeviceInterfaceMetric{
		DeviceId:    deviceId,
		IfName:      sentence.Map["name"],
		RxBytes:     parseCounter(sentence.Map["rx-byte"]),
		TxBytes:     parseCounter(sentence.Map["tx-byte"]),
		RxPackets:   parseCounter(sentence.Map["rx-packet"]),
		TxPackets:   parseCounter(sentence.Map["tx-packet"]),
		CollectedAt: now,
	}
}

func parseActiveSession(sentence *proto.Sentence, deviceId int64, now time.Time) domain.DeviceOnlineUser {
	status := domain.SessionStatusActive
	if sentence.Map["disabled"] == "true" {
		status = domain.SessionStatusDisabled
	}
	return domain.DeviceOnlineUser{
		DeviceId:    deviceId,
		Username:    sentence.Map["name"],
		Ipaddr:      sentence.Map["address"],
		MacAddr:     sentence.Map["caller-id"],
		SessionTime: sentence.Map["uptime"],
		BytesIn:     parseCounter(sentence.Map["limit-bytes-in"]),
		BytesOut:    parseCounter(sentence.Map["limit-bytes-out"]),
		Status:      status,
		LastSeenAt:  now,
	}
}

// parseCounter converts a device counter string to an exact decimal.
// Unparseable or negative values collapse to zero rather than failing
// the whole snapshot.
func parseCounter(raw string) decimal.Decimal {
	if raw == "" {
		return decimal.Zero
	}
	value, err := decimal.NewFromString(raw)
	if err != nil || value.IsNegative() {
		return decimal.Zero
	}
	return value
}
