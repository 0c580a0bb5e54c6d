package gate

import "testing"

func TestDecide(t *testing.T) {
	anonymous := State{}
	noPlan := State{LoggedIn: true}
	member := State{LoggedIn: true, HasPlan: true}
	riding := State{LoggedIn: true, HasPlan: true, HasActiveTrip: true}

	cases := []struct {
		name   string
		screen Screen
		state  State
		want   Decision
	}{
		{"anonymous reaches login", ScreenLogin, anonymous, Render},
		{"anonymous reaches register", ScreenRegister, anonymous, Render},
		{"anonymous blocked from dashboard", ScreenDashboard, anonymous, RedirectLogin},
		{"anonymous blocked from active ride", ScreenActiveRide, anonymous, RedirectLogin},
		{"anonymous blocked from profile", ScreenProfile, anonymous, RedirectLogin},

		{"member leaves login", ScreenLogin, member, RedirectDashboard},
		{"member leaves register", ScreenRegister, member, RedirectDashboard},

		{"no plan forced to membership", ScreenDashboard, noPlan, RedirectMembership},
		{"no plan forced from stations", ScreenStations, noPlan, RedirectMembership},
		{"no plan keeps profile", ScreenProfile, noPlan, Render},
		{"no plan keeps membership", ScreenMembership, noPlan, Render},
		{"no plan blocked from active ride", ScreenActiveRide, noPlan, RedirectMembership},

		{"active ride needs a tracked trip", ScreenActiveRide, member, RedirectDashboard},
		{"active ride renders while riding", ScreenActiveRide, riding, Render},

		{"member renders dashboard", ScreenDashboard, member, Render},
		{"member renders stations", ScreenStations, member, Render},
		{"member renders book", ScreenBook, member, Render},
		{"member renders technicians", ScreenTechnicians, member, Render},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Decide(c.screen, c.state); got != c.want {
				t.Errorf("Decide(%s, %+v) = %s, want %s", c.screen, c.state, got, c.want)
			}
		})
	}
}

func TestDecideIsStateless(t *testing.T) {
	// Same inputs, same answer, regardless of call history.
	st := State{LoggedIn: true, HasPlan: true}
	first := Decide(ScreenActiveRide, st)
	Decide(ScreenDashboard, State{})
	Decide(ScreenLogin, State{LoggedIn: true, HasPlan: true, HasActiveTrip: true})
	if got := Decide(ScreenActiveRide, st); got != first {
		t.Errorf("decision changed between identical calls: %s then %s", first, got)
	}
}
