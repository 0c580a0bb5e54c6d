package gate

// Screen names one navigable view of the client.
type Screen string

const (
	ScreenLogin       Screen = "login"
	ScreenRegister    Screen = "register"
	ScreenDashboard   Screen = "dashboard"
	ScreenStations    Screen = "stations"
	ScreenVehicles    Screen = "vehicles"
	ScreenBook        Screen = "book"
	ScreenMyRides     Screen = "my-rides"
	ScreenActiveRide  Screen = "active-ride"
	ScreenProfile     Screen = "profile"
	ScreenMembership  Screen = "membership"
	ScreenTechnicians Screen = "technicians"
)

// State is the navigation-relevant projection of current session state.
type State struct {
	LoggedIn      bool
	HasPlan       bool
	HasActiveTrip bool
}

// Decision is the outcome of a navigation check.
type Decision int

const (
	Render Decision = iota
	RedirectLogin
	RedirectMembership
	RedirectDashboard
)

func (d Decision) String() string {
	switch d {
	case Render:
		return "render"
	case RedirectLogin:
		return "redirect-login"
	case RedirectMembership:
		return "redirect-membership"
	case RedirectDashboard:
		return "redirect-dashboard"
	default:
		return "unknown"
	}
}

// Decide resolves whether the requested screen renders or redirects. Pure
// function of current state; it is re-derived on every navigation and caches
// nothing. Rules apply in priority order: authentication, then membership,
// then active-trip reachability.
func Decide(screen Screen, st State) Decision {
	entryScreen := screen == ScreenLogin || screen == ScreenRegister

	if !st.LoggedIn {
		if entryScreen {
			return Render
		}
		return RedirectLogin
	}

	// Logged-in users have no business on the entry screens.
	if entryScreen {
		return RedirectDashboard
	}

	if !st.HasPlan && screen != ScreenMembership && screen != ScreenProfile {
		return RedirectMembership
	}

	if screen == ScreenActiveRide && !st.HasActiveTrip {
		return RedirectDashboard
	}

	return Render
}
