package steamcmd

import "testing"

func TestIsSuccess(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"Success! App '730' fully installed.", true},
		{" Update state (0x61) downloading, progress: 50.00%", false},
		{"success! lowercase does not count", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsSuccess(tt.line); got != tt.want {
			t.Errorf("IsSuccess(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestIsFailure(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"ERROR! Failed to install app '730' (No subscription)", true},
		{"Error! lowercase does not count", false},
		{"Failed to load script", true},
		{"Login Failure: Invalid Password", false},
		{"Success! App '730' fully installed.", false},
	}

	for _, tt := range tests {
		if got := IsFailure(tt.line); got != tt.want {
			t.Errorf("IsFailure(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestLoginFailed(t *testing.T) {
	tests := []struct {
		output string
		want   bool
	}{
		{"Waiting for user info...OK", false},
		{"Login Failure: Invalid Password", true},
		{"FAILED login with result code 5", true},
		{"Logging in user 'elsanchez' to Steam Public...OK", false},
	}

	for _, tt := range tests {
		if got := LoginFailed(tt.output); got != tt.want {
			t.Errorf("LoginFailed(%q) = %v, want %v", tt.output, got, tt.want)
		}
	}
}
