// Package apiclient implements the transport chokepoint for all panel API calls.
//
// Every outbound request passes through a single Client that:
//
//   - injects the current session credential (Authorization header) from a
//     read-only TokenSource
//   - annotates the request with an X-Request-ID correlation header
//   - normalizes the panel's response envelope {code, message, data} into a
//     success payload or a classified *Error
//   - fires the session teardown handler on auth-invalid response codes,
//     regardless of the request's notification flag
//   - emits a user-visible notification for other failures, with a localized
//     message keyed by response code, falling back to the server message and
//     finally to a generic one
//
// Failure classification follows a small taxonomy (Kind): auth-invalid,
// validation, transient, and server error. Network failures and timeouts never
// reached a server verdict and are classified transient; callers such as the
// purchase flow treat them as soft failures with cached fallbacks.
//
// Usage:
//
//	client, err := apiclient.New(cfg,
//		apiclient.WithTokenSource(sess),
//		apiclient.WithAuthInvalidHandler(sess.Destroy),
//		apiclient.WithNotifier(toasts),
//		apiclient.WithTranslator(tr),
//	)
//
//	data, err := client.Do(ctx, apiclient.Request{
//		Method: http.MethodPost,
//		Path:   "/v1/user/order/pre",
//		Body:   req,
//		SkipErrorNotification: true,
//	})
package apiclient
