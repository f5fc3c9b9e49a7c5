package core

//go:generate mockgen -source=signal_iface.go -destination=coremock/signal.go -package=coremock

// Frame is a raw encoded message.
type Frame []byte

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}
