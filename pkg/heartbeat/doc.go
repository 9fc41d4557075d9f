// Package heartbeat implements the wire format of the standby heartbeat.
//
// A heartbeat is a single UDP datagram whose payload is the decimal ASCII
// text of the primary's counter. There is no length prefix, sequence number,
// timestamp or sender identity: the message only says "the latest counter I
// emitted".
//
// # Encoding
//
//	payload := heartbeat.Encode(42) // []byte("42")
//
// # Decoding
//
// Receivers trim surrounding whitespace before parsing, so " 7 \n" decodes
// to 7. Payloads that are not valid UTF-8 or not a base-10 unsigned 64-bit
// integer are rejected:
//
//	v, err := heartbeat.Decode(payload)
//	if errors.Is(err, heartbeat.ErrMalformedPayload) {
//	    // discard, but the datagram still proves the sender is alive
//	}
package heartbeat
