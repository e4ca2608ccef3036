package cli

// Process exit codes. Scripts driving opsboard branch on these, so values
// never change once released.
const (
	ExitSuccess = 0

	// ExitError covers store, redis and commit failures: the request was
	// valid but could not be carried out. Retrying may succeed.
	ExitError = 1

	// ExitUsage means the command line itself was wrong: a missing --board,
	// a malformed ID, conflicting move flags.
	ExitUsage = 2

	// ExitNotFound means a board, column or task named on the command line
	// does not exist.
	ExitNotFound = 3

	// ExitDataErr means stored data blocks the operation, such as a board
	// without columns or a column delete that stopped after reassigning
	// its tasks.
	ExitDataErr = 4

	// ExitValidation means the input was understood but refused: a bad name
	// or color, an unknown status, the column cap, a move past the edge.
	ExitValidation = 5

	// ExitAuth means the session token is missing, malformed or expired
	// and could not be refreshed. Sign in again and update the config.
	ExitAuth = 6
)
