package browser

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLaunchOptions_Args(t *testing.T) {
	opts := DefaultLaunchOptions()
	assert.Equal(t, []string{"--no-sandbox", "--disable-dev-shm-usage", "--start-maximized"}, opts.Args())

	opts.NoSandbox = false
	opts.Maximized = false
	assert.Equal(t, []string{"--disable-dev-shm-usage"}, opts.Args())
}

func TestLaunchOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*LaunchOptions)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*LaunchOptions) {}},
		{name: "missing url", mutate: func(o *LaunchOptions) { o.TargetURL = "" }, wantErr: true},
		{name: "negative implicit wait", mutate: func(o *LaunchOptions) { o.ImplicitWait = -1 }, wantErr: true},
		{name: "negative navigate wait", mutate: func(o *LaunchOptions) { o.NavigateWait = -1 }, wantErr: true},
		{name: "persistent without profile", mutate: func(o *LaunchOptions) { o.Incognito = false }, wantErr: true},
		{
			name: "persistent with profile",
			mutate: func(o *LaunchOptions) {
				o.Incognito = false
				o.ProfileDir = t.TempDir()
			},
		},
		{
			name: "fixed viewport must be positive",
			mutate: func(o *LaunchOptions) {
				o.Maximized = false
				o.ViewportWidth = 0
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultLaunchOptions()
			tt.mutate(&opts)
			err := opts.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSetupError(t *testing.T) {
	cause := errors.New("chromium missing")
	err := error(newSetupError("launch", cause))

	assert.True(t, IsSetupError(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "setup problem detected")
	assert.Contains(t, err.Error(), "launch")

	var setupErr *SetupError
	require.True(t, errors.As(err, &setupErr))
	assert.Equal(t, "launch", setupErr.Stage)

	assert.False(t, IsSetupError(cause))
}

func TestLauncher_OpenBeforeInitialize(t *testing.T) {
	l := NewLauncher()
	session, err := l.Open(context.Background(), DefaultLaunchOptions())
	assert.Nil(t, session)
	assert.True(t, IsSetupError(err))
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestLauncher_OpenInvalidOptions(t *testing.T) {
	l := NewLauncher()
	opts := DefaultLaunchOptions()
	opts.TargetURL = ""

	_, err := l.Open(context.Background(), opts)
	var setupErr *SetupError
	require.ErrorAs(t, err, &setupErr)
	assert.Equal(t, "options", setupErr.Stage)
}

func TestLauncher_OpenCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLauncher().Open(ctx, DefaultLaunchOptions())
	assert.True(t, IsSetupError(err))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLauncher_CloseNil(t *testing.T) {
	assert.NoError(t, NewLauncher().Close(nil))
}

func TestLauncher_CloseReleasesInReverseOrder(t *testing.T) {
	var order []string
	s := &Session{ID: "s1"}
	for _, name := range []string{"browser", "context", "page"} {
		name := name
		s.addCloser(name, func() error {
			order = append(order, name)
			return nil
		})
	}

	l := NewLauncher()
	require.True(t, s.Alive())
	require.NoError(t, l.Close(s))
	assert.Equal(t, []string{"page", "context", "browser"}, order)
	assert.False(t, s.Alive())

	// second close is a no-op
	require.NoError(t, l.Close(s))
	assert.Len(t, order, 3)
}

func TestLauncher_CloseContinuesAfterFailure(t *testing.T) {
	pageErr := errors.New("page gone")
	browserErr := errors.New("browser crashed")
	closed := map[string]bool{}

	s := &Session{ID: "s2"}
	s.addCloser("browser", func() error { closed["browser"] = true; return browserErr })
	s.addCloser("context", func() error { closed["context"] = true; return nil })
	s.addCloser("page", func() error { closed["page"] = true; return pageErr })

	err := NewLauncher().Close(s)
	require.Error(t, err)
	assert.ErrorIs(t, err, pageErr)
	assert.ErrorIs(t, err, browserErr)
	assert.True(t, closed["browser"])
	assert.True(t, closed["context"])
	assert.True(t, closed["page"])
}

func TestSession_ClosedAccessors(t *testing.T) {
	s := &Session{ID: "s3"}
	require.NoError(t, s.close())

	_, err := s.Title()
	assert.ErrorIs(t, err, ErrSessionClosed)
	assert.Empty(t, s.URL())
	_, err = s.Snapshot(0)
	assert.ErrorIs(t, err, ErrSessionClosed)
	assert.ErrorIs(t, s.Screenshot("x.png"), ErrSessionClosed)

	var nilSession *Session
	assert.False(t, nilSession.Alive())
}

func TestLauncher_ShutdownWithoutInitialize(t *testing.T) {
	assert.NoError(t, NewLauncher().Shutdown())
}
