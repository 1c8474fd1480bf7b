package reachability

import (
	"time"

	"github.com/nats-io/nats.go"
)

// NATSSource derives connectivity from the status of the app's broker
// connection: if the device can hold its NATS connection it can reach the
// backend. Disconnects and reconnects arrive as push callbacks, which maps
// directly onto the monitor's boolean signal.
type NATSSource struct {
	URL string
}

func (s NATSSource) Start(emit func(connected bool)) (func(), error) {
	nc, err := nats.Connect(s.URL,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.ConnectHandler(func(*nats.Conn) { emit(true) }),
		nats.DisconnectErrHandler(func(_ *nats.Conn, _ error) { emit(false) }),
		nats.ReconnectHandler(func(*nats.Conn) { emit(true) }),
		nats.ClosedHandler(func(*nats.Conn) { emit(false) }),
	)
	if err != nil {
		return nil, err
	}

	emit(nc.IsConnected())
	return func() { nc.Close() }, nil
}
