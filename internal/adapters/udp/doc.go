// Package udp implements the heartbeat channel over connectionless UDP
// datagrams on a fixed rendezvous address.
//
// The backup binds the rendezvous address with [Transport.Listen]; only one
// process can hold it, so a second backup fails at bind time with
// domain.ErrAddressInUse. The primary sends from an ephemeral port connected
// to the rendezvous address with [Transport.Dial].
package udp
