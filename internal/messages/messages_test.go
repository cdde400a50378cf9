package messages

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastprodman/moneyd/internal/resolver"
)

func TestFormat(t *testing.T) {
	t.Parallel()

	c := Default()

	assert.Equal(t, "The balance of Bob in the scope nether is $5.00.",
		c.Format("balance-player-in-world", "Bob", "nether", "$5.00"))
	assert.Equal(t, "You don't have enough money.", c.Format("not-enough-money"))
	assert.Equal(t, "no-such-key", c.Format("no-such-key", "x"))

	// arguments are not re-expanded
	assert.Equal(t, "Failed to parse amount {1}.", c.Format("cannot-parse-amount", "{1}", "boom"))
}

func TestLoad_Overrides(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "messages.yaml")
	require.NoError(t, os.WriteFile(path, []byte("not-enough-money: \"Insufficient funds, {0}.\"\n"), 0o600))

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Insufficient funds, Steve.", c.Format("not-enough-money", "Steve"))
	assert.Equal(t, "You cannot send money to yourself.", c.Format("cannot-send-self"))

	// the built-in catalog is unaffected
	assert.Equal(t, "You don't have enough money.", Default().Format("not-enough-money"))
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- just\n- a list\n"), 0o600))

	_, err = Load(path)
	require.Error(t, err)

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "Show this help message.", c.Format("help-help"))
}

func TestHelp(t *testing.T) {
	t.Parallel()

	c := Default()

	tests := []struct {
		name   string
		caller resolver.Caller
		multi  bool
		want   []string
	}{
		{
			name:   "player_without_permissions_single",
			caller: resolver.Caller{Interactive: true},
			want: []string{
				"--------- Help: money -----------------------",
				"Your balance is shared across all scopes.",
				"/money: Show your current balance.",
				"/money help: Show this help message.",
			},
		},
		{
			name:   "player_multi",
			caller: resolver.Caller{Interactive: true, Caps: resolver.Caps{ViewOther: true, Send: true, SetSelf: true}},
			multi:  true,
			want: []string{
				"--------- Help: money -----------------------",
				"Omit the <scope> parameter to use your current scope.",
				"/money [<scope>]: Show your current balance.",
				"/money <player> [<scope>]: Show the balance of a player.",
				"/money send <player> <amount> [<scope>]: Send money to a player.",
				"/money set <amount> [<scope>]: Set your balance.",
				"/money give <amount> [<scope>]: Add money to your balance.",
				"/money take <amount> [<scope>]: Take money from your balance.",
				"/money help: Show this help message.",
			},
		},
		{
			name:   "console_multi_names_scope",
			caller: resolver.Caller{Caps: resolver.Caps{ViewOther: true, SetSelf: true, SetOther: true}},
			multi:  true,
			want: []string{
				"--------- Help: money -----------------------",
				"/money <player> <scope>: Show the balance of a player.",
				"/money set <player> <amount> <scope>: Set the balance of a player.",
				"/money give <player> <amount> <scope>: Add money to the balance of a player.",
				"/money take <player> <amount> <scope>: Take money from the balance of a player.",
				"/money help: Show this help message.",
			},
		},
		{
			name:   "console_single",
			caller: resolver.Caller{Caps: resolver.Caps{Send: true}},
			want: []string{
				"--------- Help: money -----------------------",
				"/money send <player> <amount>: Send money to a player.",
				"/money help: Show this help message.",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, c.Help("money", tt.caller, tt.multi))
		})
	}
}
