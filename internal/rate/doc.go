// Package rate implements the failed-login throttle on Redis counters.
//
// # Window semantics
//
// Fixed-window counters: one Lua call runs INCR and, on the first hit,
// PEXPIRE. Key layout:
//   - <prefix>:login:<identifier>
//   - <prefix>:login-ip:<ip>
//
// Callers decide what a transport failure ([ErrRedisUnavailable]) means;
// the engine lets logins through.
package rate
