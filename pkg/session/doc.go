// Package session holds the process-wide panel session credential.
//
// The credential has an explicit lifecycle: it is initialized on successful
// authentication (Start), read by every outbound request (Token), and torn down
// exactly once per session by either an explicit logout or the transport's
// auth-invalid handler (Destroy). No other component writes it.
//
// Usage:
//
//	sess := session.New(session.WithDestroyHook(func() {
//		// redirect to the auth screen
//	}))
//
//	if err := sess.Start(loginResp.Token); err != nil {
//		// handle error
//	}
//
//	token, ok := sess.Token()
package session
