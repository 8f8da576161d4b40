// Package workflows provides high-level orchestration for mspkeys commands.
//
// Workflows coordinate the keystore manager, identity encoding and the audit
// trail to implement complete user-facing features. Each workflow handles a
// single command's logic, independent of CLI concerns like flag parsing,
// prompting, spinners and output formatting.
//
// # Session
//
// A Session owns everything one invocation needs: the keystore manager (and
// with it the lock that serializes keystore operations), the audit trail and
// the logger. The command layer builds one Session and passes it to every
// workflow it runs.
//
// # Identities
//
// Workflows accept identities as either npub or hex and return both forms
// in KeyView. An empty identity selects the only entry of a single-entry
// keystore where the operation allows it.
//
// # Error Handling
//
// Workflows return errors wrapping the sentinels in internal/errors so the
// CLI layer can pick its message with errors.Is:
//
//	res, err := workflows.Unlock(ctx, sess, opts)
//	if errors.Is(err, kerrors.ErrAuthenticationFailed) {
//	    // Show the wrong-password hint
//	}
//
// Every keystore-changing workflow records one audit entry, successful or not.
package workflows
