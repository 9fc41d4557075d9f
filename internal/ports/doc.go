// Package ports defines the interfaces (ports) that connect the application
// layer to infrastructure adapters.
//
// Ports are the boundaries between the failover core and the outside world.
// They define what the application needs from the operating system and the
// network without specifying how those needs are fulfilled.
//
// # Port Interfaces
//
//   - [HeartbeatTransport]: Opens the receiving and sending ends of the heartbeat channel
//   - [HeartbeatReceiver]: Waits a bounded time for one heartbeat datagram
//   - [HeartbeatSender]: Sends one heartbeat datagram, best effort
//   - [Launcher]: Starts a new instance of this program in a given role
//   - [CounterSink]: Receives every counter value the primary emits
//   - [Metrics]: Records failover and heartbeat events
//   - [Logger]: Structured logging abstraction
//
// # Usage
//
// The application layer (internal/app) depends only on these interfaces.
// Infrastructure adapters (internal/adapters) implement them with UDP
// sockets, os/exec, zerolog and prometheus. Tests substitute in-memory fakes,
// which keeps the failover state machine testable without real processes.
package ports
