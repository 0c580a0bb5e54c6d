package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"voltride/internal/api"
	"voltride/internal/gate"
	"voltride/internal/identity"
	"voltride/internal/models"
	"voltride/internal/pricing"
	"voltride/internal/session"
	"voltride/internal/trips"
)

// REPL is the terminal front end. It holds no state of its own beyond the
// requested screen: every render re-derives navigation from the two state
// cells through the gate.
type REPL struct {
	svc        *trips.Service
	rental     *api.Client
	store      *identity.Store
	controller *session.Controller
	in         io.Reader
	out        io.Writer
	logger     *zap.Logger
}

// NewREPL builds the front end on stdin/stdout.
func NewREPL(svc *trips.Service, rental *api.Client, store *identity.Store, controller *session.Controller, logger *zap.Logger) *REPL {
	return &REPL{
		svc:        svc,
		rental:     rental,
		store:      store,
		controller: controller,
		in:         os.Stdin,
		out:        os.Stdout,
		logger:     logger,
	}
}

// Run loops until EOF, quit, or context cancellation.
func (r *REPL) Run(ctx context.Context) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	screen := gate.ScreenDashboard
	for {
		screen = r.resolve(screen)
		r.render(ctx, screen)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			next, quit := r.handle(ctx, screen, strings.TrimSpace(line))
			if quit {
				return nil
			}
			screen = next
		}
	}
}

func (r *REPL) gateState() gate.State {
	ident, loggedIn := r.store.Current()
	_, hasTrip := r.controller.Active()
	return gate.State{
		LoggedIn:      loggedIn,
		HasPlan:       loggedIn && ident.HasPlan(),
		HasActiveTrip: hasTrip,
	}
}

func (r *REPL) resolve(requested gate.Screen) gate.Screen {
	switch gate.Decide(requested, r.gateState()) {
	case gate.RedirectLogin:
		return gate.ScreenLogin
	case gate.RedirectMembership:
		return gate.ScreenMembership
	case gate.RedirectDashboard:
		return gate.ScreenDashboard
	default:
		return requested
	}
}

func (r *REPL) printf(format string, args ...interface{}) {
	fmt.Fprintf(r.out, format+"\n", args...)
}

func (r *REPL) fail(err error) {
	// Validation and remote messages surface verbatim.
	r.printf("! %s", err.Error())
}

func (r *REPL) render(ctx context.Context, screen gate.Screen) {
	r.printf("")
	switch screen {
	case gate.ScreenLogin:
		r.printf("[login]  login <email> <password> | go register | quit")
	case gate.ScreenRegister:
		r.printf("[register]  register <name> <email> <password> | go login | quit")
	case gate.ScreenDashboard:
		r.renderDashboard()
	case gate.ScreenStations:
		r.renderStations(ctx)
	case gate.ScreenVehicles:
		r.renderVehicles(ctx)
	case gate.ScreenBook:
		r.printf("[book]  book <vehicleID> <stationID> <hours>")
	case gate.ScreenMyRides:
		r.renderMyRides(ctx)
	case gate.ScreenActiveRide:
		r.renderActiveRide()
	case gate.ScreenProfile:
		r.renderProfile()
	case gate.ScreenMembership:
		r.renderMembership(ctx)
	case gate.ScreenTechnicians:
		r.renderTechnicians(ctx)
	}
	fmt.Fprint(r.out, "> ")
}

func (r *REPL) renderDashboard() {
	ident, _ := r.store.Current()
	r.printf("[dashboard]  %s  wallet %.2f  role %s", ident.Name, pricing.Round2(ident.WalletBalance), ident.Role)
	if trip, ok := r.controller.Active(); ok {
		r.printf("  active ride: trip %d on %s (go active-ride)", trip.TripID, trip.VehicleModel)
	}
	r.printf("  go stations|vehicles|book|my-rides|profile|membership%s | topup <amount> | logout | quit",
		r.adminSuffix())
}

func (r *REPL) adminSuffix() string {
	if ident, ok := r.store.Current(); ok && ident.IsAdmin() {
		return "|technicians"
	}
	return ""
}

func (r *REPL) renderStations(ctx context.Context) {
	stations, err := r.rental.ListStations(ctx)
	if err != nil {
		r.fail(err)
		return
	}
	r.printf("[stations]")
	for _, s := range stations {
		r.printf("  %3d  %-20s %-20s capacity %d, %d available", s.StationID, s.Name, s.Location, s.Capacity, s.AvailableVehicles)
	}
	r.printf("  at <stationID> lists its vehicles | go book")
	if ident, ok := r.store.Current(); ok && ident.IsAdmin() {
		r.printf("  add-station <name> <location> <capacity> | deactivate <stationID>")
	}
}

func (r *REPL) renderVehicles(ctx context.Context) {
	vehicles, err := r.rental.ListVehicles(ctx)
	if err != nil {
		r.fail(err)
		return
	}
	r.printf("[vehicles]")
	for _, v := range vehicles {
		r.printf("  %3d  %-10s %-20s %.2f/hr  %s  at %s", v.VehicleID, v.Type, v.Model, v.RatePerHour, v.Status, v.CurrentStationName)
	}
	r.printf("  go book")
	if ident, ok := r.store.Current(); ok && ident.IsAdmin() {
		r.printf("  add-vehicle <type> <model> <manufacturer> <rate> <registration> <stationID> | decommission <vehicleID>")
	}
}

func (r *REPL) renderMyRides(ctx context.Context) {
	ident, _ := r.store.Current()
	rides, err := r.rental.ListTripsFor(ctx, ident.ID, "")
	if err != nil {
		r.fail(err)
		return
	}
	r.printf("[my-rides]")
	for _, t := range rides {
		r.printf("  %3d  %-10s %-20s cost %.2f  started %s", t.TripID, t.Status, t.VehicleModel, pricing.Round2(t.Cost), t.StartTime)
	}
	r.printf("  review <tripID> <rating 1-5> [comment]")
}

func (r *REPL) renderActiveRide() {
	trip, ok := r.controller.Active()
	if !ok {
		return
	}
	r.printf("[active-ride]  trip %d  %s from %s, started %s", trip.TripID, trip.VehicleModel, trip.StartStationName, trip.StartTime)
	r.printf("  end <stationID> | cancel | report <issue>")
}

func (r *REPL) renderProfile() {
	ident, _ := r.store.Current()
	plan := "none"
	if ident.PlanName != nil {
		plan = fmt.Sprintf("%s (%.0f%% off)", *ident.PlanName, ident.PlanDiscount*100)
	}
	r.printf("[profile]  %s <%s>  wallet %.2f  plan %s", ident.Name, ident.Email, pricing.Round2(ident.WalletBalance), plan)
	r.printf("  name <newName> | password <newPassword>")
}

func (r *REPL) renderMembership(ctx context.Context) {
	plans, err := r.rental.ListMembershipPlans(ctx)
	if err != nil {
		r.fail(err)
		return
	}
	r.printf("[membership]")
	for _, p := range plans {
		r.printf("  %3d  %-15s %.2f for %d months  %s", p.PlanID, p.PlanName, p.Cost, p.DurationMonths, p.Benefits)
	}
	r.printf("  buy <planID>")
}

func (r *REPL) renderTechnicians(ctx context.Context) {
	ident, _ := r.store.Current()
	technicians, err := r.rental.ListTechnicians(ctx, ident.Role)
	if err != nil {
		r.fail(err)
		return
	}
	r.printf("[technicians]")
	for _, t := range technicians {
		r.printf("  %3d  %-20s %-15s available=%t assignments=%d", t.TechnicianID, t.Name, t.Specialization, t.IsAvailable, t.ActiveAssignments)
	}
	r.printf("  add <name> <specialization> | rename <techID> <name> | avail <techID> <true|false>")
	r.printf("  remove <techID> | done <logID> | assignments")
}

// handle runs one command and returns the next requested screen.
func (r *REPL) handle(ctx context.Context, screen gate.Screen, line string) (gate.Screen, bool) {
	if line == "" {
		return screen, false
	}
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "quit", "exit":
		return screen, true
	case "go":
		if len(args) == 1 {
			return gate.Screen(args[0]), false
		}
		return screen, false
	case "logout":
		r.svc.Logout(ctx)
		return gate.ScreenLogin, false
	case "login":
		return r.doLogin(ctx, screen, args), false
	case "register":
		return r.doRegister(ctx, screen, args), false
	case "topup":
		r.doTopUp(ctx, args)
		return screen, false
	case "at":
		r.doVehiclesAt(ctx, args)
		return screen, false
	case "book":
		return r.doBook(ctx, screen, args), false
	case "end":
		r.doEnd(ctx, args)
		return screen, false
	case "cancel":
		if err := r.svc.Cancel(ctx); err != nil {
			r.fail(err)
		} else {
			r.printf("ride cancelled, refund issued")
		}
		return screen, false
	case "report":
		r.doReport(ctx, args)
		return screen, false
	case "review":
		r.doReview(ctx, args)
		return screen, false
	case "buy":
		r.doBuyPlan(ctx, args)
		return screen, false
	case "name":
		r.doUpdateProfile(ctx, strings.Join(args, " "), "")
		return screen, false
	case "password":
		r.doUpdateProfile(ctx, "", strings.Join(args, " "))
		return screen, false
	case "add-station":
		r.doAddStation(ctx, args)
		return screen, false
	case "deactivate":
		r.doDeactivateStation(ctx, args)
		return screen, false
	case "add-vehicle":
		r.doAddVehicle(ctx, args)
		return screen, false
	case "decommission":
		r.doDecommissionVehicle(ctx, args)
		return screen, false
	case "add":
		r.doAddTechnician(ctx, args)
		return screen, false
	case "rename":
		r.doRenameTechnician(ctx, args)
		return screen, false
	case "avail":
		r.doTechnicianAvailability(ctx, args)
		return screen, false
	case "remove":
		r.doRemoveTechnician(ctx, args)
		return screen, false
	case "done":
		r.doCompleteLog(ctx, args)
		return screen, false
	case "assignments":
		r.doAssignments(ctx)
		return screen, false
	default:
		r.printf("unknown command %q", cmd)
		return screen, false
	}
}

func (r *REPL) doLogin(ctx context.Context, screen gate.Screen, args []string) gate.Screen {
	if len(args) != 2 {
		r.printf("usage: login <email> <password>")
		return screen
	}
	ident, err := r.svc.Login(ctx, args[0], args[1])
	if err != nil {
		r.fail(err)
		return screen
	}
	r.printf("welcome back, %s", ident.Name)
	return gate.ScreenDashboard
}

func (r *REPL) doRegister(ctx context.Context, screen gate.Screen, args []string) gate.Screen {
	if len(args) != 3 {
		r.printf("usage: register <name> <email> <password>")
		return screen
	}
	if err := r.svc.Register(ctx, args[0], args[1], args[2]); err != nil {
		r.fail(err)
		return screen
	}
	r.printf("registered, you can log in now")
	return gate.ScreenLogin
}

func (r *REPL) doTopUp(ctx context.Context, args []string) {
	if len(args) != 1 {
		r.printf("usage: topup <amount>")
		return
	}
	amount, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		r.printf("usage: topup <amount>")
		return
	}
	if err := r.svc.TopUpWallet(ctx, amount); err != nil {
		r.fail(err)
		return
	}
	if ident, ok := r.store.Current(); ok {
		r.printf("wallet balance: %.2f", pricing.Round2(ident.WalletBalance))
	}
}

func (r *REPL) doVehiclesAt(ctx context.Context, args []string) {
	stationID, ok := parseID(args, 0)
	if !ok {
		r.printf("usage: at <stationID>")
		return
	}
	vehicles, err := r.rental.ListVehiclesAtStation(ctx, stationID)
	if err != nil {
		r.fail(err)
		return
	}
	for _, v := range vehicles {
		r.printf("  %3d  %-10s %-20s %.2f/hr", v.VehicleID, v.Type, v.Model, v.RatePerHour)
	}
}

func (r *REPL) doBook(ctx context.Context, screen gate.Screen, args []string) gate.Screen {
	if len(args) != 3 {
		r.printf("usage: book <vehicleID> <stationID> <hours>")
		return screen
	}
	vehicleID, ok1 := parseID(args, 0)
	stationID, ok2 := parseID(args, 1)
	if !ok1 || !ok2 {
		r.printf("usage: book <vehicleID> <stationID> <hours>")
		return screen
	}
	hours := pricing.ParseDuration(args[2])

	vehicle, err := r.findVehicle(ctx, vehicleID)
	if err != nil {
		r.fail(err)
		return screen
	}

	err = r.svc.Book(ctx, trips.BookingInput{
		VehicleID:      vehicleID,
		StartStationID: stationID,
		DurationHours:  hours,
		RatePerHour:    vehicle.RatePerHour,
	})
	if err != nil {
		r.fail(err)
		return screen
	}
	r.printf("ride booked")
	return gate.ScreenActiveRide
}

func (r *REPL) findVehicle(ctx context.Context, vehicleID int64) (models.Vehicle, error) {
	vehicles, err := r.rental.ListVehicles(ctx)
	if err != nil {
		return models.Vehicle{}, err
	}
	for _, v := range vehicles {
		if v.VehicleID == vehicleID {
			return v, nil
		}
	}
	return models.Vehicle{}, fmt.Errorf("no vehicle with id %d", vehicleID)
}

func (r *REPL) doEnd(ctx context.Context, args []string) {
	stationID, ok := parseID(args, 0)
	if !ok {
		r.printf("usage: end <stationID>")
		return
	}
	if err := r.svc.End(ctx, stationID); err != nil {
		r.fail(err)
		return
	}
	r.printf("ride ended")
}

func (r *REPL) doReport(ctx context.Context, args []string) {
	trip, ok := r.controller.Active()
	if !ok {
		r.printf("no active ride")
		return
	}
	if err := r.svc.ReportIssue(ctx, trip.VehicleID, strings.Join(args, " ")); err != nil {
		r.fail(err)
		return
	}
	r.printf("issue reported, a technician has been assigned")
}

func (r *REPL) doReview(ctx context.Context, args []string) {
	if len(args) < 2 {
		r.printf("usage: review <tripID> <rating 1-5> [comment]")
		return
	}
	tripID, ok := parseID(args, 0)
	rating, err := strconv.Atoi(args[1])
	if !ok || err != nil {
		r.printf("usage: review <tripID> <rating 1-5> [comment]")
		return
	}

	ident, _ := r.store.Current()
	rides, err := r.rental.ListTripsFor(ctx, ident.ID, "")
	if err != nil {
		r.fail(err)
		return
	}
	for _, t := range rides {
		if t.TripID != tripID {
			continue
		}
		input := trips.ReviewInput{Rating: rating, Comment: strings.Join(args[2:], " ")}
		if err := r.svc.Review(ctx, t, input); err != nil {
			r.fail(err)
			return
		}
		r.printf("review added")
		return
	}
	r.printf("no trip with id %d", tripID)
}

func (r *REPL) doBuyPlan(ctx context.Context, args []string) {
	planID, ok := parseID(args, 0)
	if !ok {
		r.printf("usage: buy <planID>")
		return
	}
	plans, err := r.rental.ListMembershipPlans(ctx)
	if err != nil {
		r.fail(err)
		return
	}
	for _, p := range plans {
		if p.PlanID != planID {
			continue
		}
		if err := r.svc.PurchaseMembership(ctx, p); err != nil {
			r.fail(err)
			return
		}
		r.printf("membership purchased: %s", p.PlanName)
		return
	}
	r.printf("no plan with id %d", planID)
}

func (r *REPL) doUpdateProfile(ctx context.Context, name, password string) {
	if err := r.svc.UpdateProfile(ctx, name, password); err != nil {
		r.fail(err)
		return
	}
	r.printf("profile updated")
}

func (r *REPL) doAddStation(ctx context.Context, args []string) {
	if len(args) != 3 {
		r.printf("usage: add-station <name> <location> <capacity>")
		return
	}
	capacity, err := strconv.Atoi(args[2])
	if err != nil || capacity <= 0 {
		r.printf("usage: add-station <name> <location> <capacity>")
		return
	}
	ident, _ := r.store.Current()
	if err := r.rental.AddStation(ctx, args[0], args[1], capacity, ident.Role); err != nil {
		r.fail(err)
		return
	}
	r.printf("station added")
}

func (r *REPL) doDeactivateStation(ctx context.Context, args []string) {
	stationID, ok := parseID(args, 0)
	if !ok {
		r.printf("usage: deactivate <stationID>")
		return
	}
	ident, _ := r.store.Current()
	if err := r.rental.DeactivateStation(ctx, stationID, ident.Role); err != nil {
		r.fail(err)
		return
	}
	r.printf("station deactivated")
}

func (r *REPL) doAddVehicle(ctx context.Context, args []string) {
	if len(args) != 6 {
		r.printf("usage: add-vehicle <type> <model> <manufacturer> <rate> <registration> <stationID>")
		return
	}
	rate, err := strconv.ParseFloat(args[3], 64)
	stationID, ok := parseID(args, 5)
	if err != nil || rate <= 0 || !ok {
		r.printf("usage: add-vehicle <type> <model> <manufacturer> <rate> <registration> <stationID>")
		return
	}
	vehicle := models.Vehicle{
		Type:               args[0],
		Model:              args[1],
		Manufacturer:       args[2],
		RatePerHour:        rate,
		RegistrationNumber: args[4],
	}
	ident, _ := r.store.Current()
	if err := r.rental.AddVehicle(ctx, vehicle, stationID, ident.Role); err != nil {
		r.fail(err)
		return
	}
	r.printf("vehicle added")
}

func (r *REPL) doDecommissionVehicle(ctx context.Context, args []string) {
	vehicleID, ok := parseID(args, 0)
	if !ok {
		r.printf("usage: decommission <vehicleID>")
		return
	}
	ident, _ := r.store.Current()
	if err := r.rental.DecommissionVehicle(ctx, vehicleID, ident.Role); err != nil {
		r.fail(err)
		return
	}
	r.printf("vehicle decommissioned")
}

func (r *REPL) doAddTechnician(ctx context.Context, args []string) {
	if len(args) < 2 {
		r.printf("usage: add <name> <specialization>")
		return
	}
	ident, _ := r.store.Current()
	if err := r.rental.AddTechnician(ctx, args[0], strings.Join(args[1:], " "), ident.Role); err != nil {
		r.fail(err)
		return
	}
	r.printf("technician added")
}

func (r *REPL) doRenameTechnician(ctx context.Context, args []string) {
	techID, ok := parseID(args, 0)
	if !ok || len(args) < 2 {
		r.printf("usage: rename <techID> <name>")
		return
	}
	ident, _ := r.store.Current()
	if err := r.rental.UpdateTechnician(ctx, techID, strings.Join(args[1:], " "), "", nil, ident.Role); err != nil {
		r.fail(err)
		return
	}
	r.printf("technician updated")
}

func (r *REPL) doTechnicianAvailability(ctx context.Context, args []string) {
	techID, ok := parseID(args, 0)
	if !ok || len(args) != 2 {
		r.printf("usage: avail <techID> <true|false>")
		return
	}
	available, err := strconv.ParseBool(args[1])
	if err != nil {
		r.printf("usage: avail <techID> <true|false>")
		return
	}
	ident, _ := r.store.Current()
	if err := r.rental.UpdateTechnician(ctx, techID, "", "", &available, ident.Role); err != nil {
		r.fail(err)
		return
	}
	r.printf("technician updated")
}

func (r *REPL) doRemoveTechnician(ctx context.Context, args []string) {
	techID, ok := parseID(args, 0)
	if !ok {
		r.printf("usage: remove <techID>")
		return
	}
	ident, _ := r.store.Current()
	if err := r.rental.DeleteTechnician(ctx, techID, ident.Role); err != nil {
		r.fail(err)
		return
	}
	r.printf("technician removed")
}

func (r *REPL) doCompleteLog(ctx context.Context, args []string) {
	logID, ok := parseID(args, 0)
	if !ok {
		r.printf("usage: done <logID>")
		return
	}
	ident, _ := r.store.Current()
	if err := r.rental.CompleteMaintenanceLog(ctx, logID, ident.Role); err != nil {
		r.fail(err)
		return
	}
	r.printf("maintenance log completed")
}

func (r *REPL) doAssignments(ctx context.Context) {
	ident, _ := r.store.Current()
	assignments, err := r.rental.ListTechnicianAssignments(ctx, ident.Role)
	if err != nil {
		r.fail(err)
		return
	}
	for _, a := range assignments {
		r.printf("  log %3d  tech %-20s vehicle %d  %-10s %s", a.LogID, a.TechnicianName, a.VehicleID, a.Status, a.IssueReported)
	}
}

func parseID(args []string, idx int) (int64, bool) {
	if idx >= len(args) {
		return 0, false
	}
	id, err := strconv.ParseInt(args[idx], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
