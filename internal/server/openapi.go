package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi31"

	"github.com/crumspuzzlehunt/huntd/internal/hunt"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newOpenAPISpec() *openapi31.Spec {
	r := openapi31.NewReflector()
	r.Spec.Info.Title = "PuzzleHunt API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for hosting puzzle hunt competitions.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of the database.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /api/hunts
	listHunts, _ := r.NewOperationContext(http.MethodGet, "/api/hunts")
	listHunts.SetSummary("List hunts")
	listHunts.SetDescription("Returns all visible hunts.")
	listHunts.AddRespStructure([]HuntInfo{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(listHunts)

	// POST /api/hunts
	createHunt, _ := r.NewOperationContext(http.MethodPost, "/api/hunts")
	createHunt.SetSummary("Create hunt")
	createHunt.SetDescription("Creates a hunt and signs the creator in as its organizer.")
	createHunt.AddReqStructure(CreateHuntRequest{})
	createHunt.AddRespStructure(HuntInfo{}, openapi.WithHTTPStatus(http.StatusCreated))
	createHunt.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	createHunt.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(createHunt)

	// GET /api/{hunt}
	getHunt, _ := r.NewOperationContext(http.MethodGet, "/api/{hunt}")
	getHunt.SetSummary("Get hunt")
	getHunt.SetDescription("Returns public settings for one hunt.")
	getHunt.AddRespStructure(HuntInfo{}, openapi.WithHTTPStatus(http.StatusOK))
	getHunt.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getHunt)

	// POST /api/{hunt}/register
	register, _ := r.NewOperationContext(http.MethodPost, "/api/{hunt}/register")
	register.SetSummary("Register team")
	register.SetDescription("Registers a team with its member roster. Sets team_session cookie.")
	register.AddReqStructure(RegisterRequest{})
	register.AddRespStructure(TeamResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	register.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	register.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(register)

	// POST /api/{hunt}/signin
	signin, _ := r.NewOperationContext(http.MethodPost, "/api/{hunt}/signin")
	signin.SetSummary("Team sign-in")
	signin.SetDescription("Authenticates a team by name and password. Sets team_session cookie.")
	signin.AddReqStructure(SigninRequest{})
	signin.AddRespStructure(TeamResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	signin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(signin)

	// POST /api/{hunt}/signout
	signout, _ := r.NewOperationContext(http.MethodPost, "/api/{hunt}/signout")
	signout.SetSummary("Team sign-out")
	signout.SetDescription("Clears the team session and cookie.")
	signout.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	_ = r.AddOperation(signout)

	// GET /api/{hunt}/team
	getTeam, _ := r.NewOperationContext(http.MethodGet, "/api/{hunt}/team")
	getTeam.SetSummary("Current team")
	getTeam.SetDescription("Returns the signed-in team with its remaining guesses.")
	getTeam.AddRespStructure(TeamResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getTeam.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getTeam)

	// PUT /api/{hunt}/team
	updateTeam, _ := r.NewOperationContext(http.MethodPut, "/api/{hunt}/team")
	updateTeam.SetSummary("Update team roster")
	updateTeam.SetDescription("Replaces the signed-in team's member roster.")
	updateTeam.AddReqStructure(UpdateTeamRequest{})
	updateTeam.AddRespStructure(TeamResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	updateTeam.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	updateTeam.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(updateTeam)

	// GET /api/{hunt}/puzzles
	listPuzzles, _ := r.NewOperationContext(http.MethodGet, "/api/{hunt}/puzzles")
	listPuzzles.SetSummary("List released puzzles")
	listPuzzles.SetDescription("Returns released waves with their puzzles and released hints. Unreleased waves are absent.")
	listPuzzles.AddRespStructure([]hunt.ReleasedWave{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(listPuzzles)

	// GET /api/{hunt}/puzzles/{puzzleKey}
	getPuzzle, _ := r.NewOperationContext(http.MethodGet, "/api/{hunt}/puzzles/{puzzleKey}")
	getPuzzle.SetSummary("Get puzzle")
	getPuzzle.SetDescription("Returns one released puzzle. Unreleased puzzles are indistinguishable from missing ones.")
	getPuzzle.AddRespStructure(hunt.ReleasedPuzzle{}, openapi.WithHTTPStatus(http.StatusOK))
	getPuzzle.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getPuzzle)

	// GET /api/{hunt}/hints/{hintKey}
	getHint, _ := r.NewOperationContext(http.MethodGet, "/api/{hunt}/hints/{hintKey}")
	getHint.SetSummary("Get hint")
	getHint.SetDescription("Returns one released hint.")
	getHint.AddRespStructure(hunt.Hint{}, openapi.WithHTTPStatus(http.StatusOK))
	getHint.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getHint)

	// POST /api/{hunt}/puzzles/{puzzleKey}/guess
	submitGuess, _ := r.NewOperationContext(http.MethodPost, "/api/{hunt}/puzzles/{puzzleKey}/guess")
	submitGuess.SetSummary("Submit guess")
	submitGuess.SetDescription("Judges a guess against the puzzle's answer and returns the verdict with the remaining guess budget.")
	submitGuess.AddReqStructure(GuessRequest{})
	submitGuess.AddRespStructure(hunt.Judgement{}, openapi.WithHTTPStatus(http.StatusOK))
	submitGuess.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	submitGuess.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	submitGuess.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	submitGuess.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(submitGuess)

	// GET /api/{hunt}/stats/puzzles
	puzzleStats, _ := r.NewOperationContext(http.MethodGet, "/api/{hunt}/stats/puzzles")
	puzzleStats.SetSummary("Puzzle statistics")
	puzzleStats.SetDescription("Returns per-puzzle guess and solve counts for released puzzles.")
	puzzleStats.AddRespStructure([]hunt.PuzzleStats{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(puzzleStats)

	// GET /api/{hunt}/stats/teams
	teamStats, _ := r.NewOperationContext(http.MethodGet, "/api/{hunt}/stats/teams")
	teamStats.SetSummary("Team statistics")
	teamStats.SetDescription("Returns per-team guess and solve counts.")
	teamStats.AddRespStructure([]hunt.TeamStats{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(teamStats)

	// GET /api/{hunt}/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/{hunt}/events")
	getEvents.SetSummary("SSE event stream")
	getEvents.SetDescription("Server-Sent Events stream of the team's guess verdicts. Pass the session token as a query parameter.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	// POST /api/admin/signin
	adminSignin, _ := r.NewOperationContext(http.MethodPost, "/api/admin/signin")
	adminSignin.SetSummary("Organizer sign-in")
	adminSignin.SetDescription("Authenticates an organizer with the hunt password. Sets admin_session cookie.")
	adminSignin.AddReqStructure(AdminSigninRequest{})
	adminSignin.AddRespStructure(hunt.Hunt{}, openapi.WithHTTPStatus(http.StatusOK))
	adminSignin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(adminSignin)

	// POST /api/admin/signout
	adminSignout, _ := r.NewOperationContext(http.MethodPost, "/api/admin/signout")
	adminSignout.SetSummary("Organizer sign-out")
	adminSignout.SetDescription("Clears the organizer session and cookie.")
	adminSignout.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	_ = r.AddOperation(adminSignout)

	// GET /api/admin/hunt
	adminGetHunt, _ := r.NewOperationContext(http.MethodGet, "/api/admin/hunt")
	adminGetHunt.SetSummary("Get hunt settings")
	adminGetHunt.SetDescription("Returns the organizer's hunt. Requires admin_session cookie.")
	adminGetHunt.AddRespStructure(hunt.Hunt{}, openapi.WithHTTPStatus(http.StatusOK))
	adminGetHunt.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(adminGetHunt)

	// PUT /api/admin/hunt
	adminUpdateHunt, _ := r.NewOperationContext(http.MethodPut, "/api/admin/hunt")
	adminUpdateHunt.SetSummary("Update hunt settings")
	adminUpdateHunt.SetDescription("Updates hunt settings. Requires admin_session cookie.")
	adminUpdateHunt.AddReqStructure(AdminHuntRequest{})
	adminUpdateHunt.AddRespStructure(hunt.Hunt{}, openapi.WithHTTPStatus(http.StatusOK))
	adminUpdateHunt.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	adminUpdateHunt.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(adminUpdateHunt)

	// GET /api/admin/teams
	adminTeams, _ := r.NewOperationContext(http.MethodGet, "/api/admin/teams")
	adminTeams.SetSummary("List teams")
	adminTeams.SetDescription("Returns every registered team with members. Requires admin_session cookie.")
	adminTeams.AddRespStructure([]hunt.Team{}, openapi.WithHTTPStatus(http.StatusOK))
	adminTeams.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(adminTeams)

	// GET /api/admin/teams/emails
	adminEmails, _ := r.NewOperationContext(http.MethodGet, "/api/admin/teams/emails")
	adminEmails.SetSummary("List member emails")
	adminEmails.SetDescription("Returns every member email across all teams. Requires admin_session cookie.")
	adminEmails.AddRespStructure([]string{}, openapi.WithHTTPStatus(http.StatusOK))
	adminEmails.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(adminEmails)

	// GET /api/admin/waves
	adminWaves, _ := r.NewOperationContext(http.MethodGet, "/api/admin/waves")
	adminWaves.SetSummary("List waves")
	adminWaves.SetDescription("Returns all waves including unreleased ones. Requires admin_session cookie.")
	adminWaves.AddRespStructure([]hunt.Wave{}, openapi.WithHTTPStatus(http.StatusOK))
	adminWaves.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(adminWaves)

	// PUT /api/admin/waves
	adminSetWaves, _ := r.NewOperationContext(http.MethodPut, "/api/admin/waves")
	adminSetWaves.SetSummary("Replace waves")
	adminSetWaves.SetDescription("Replaces the complete wave list. Requires admin_session cookie.")
	adminSetWaves.AddReqStructure([]WaveInput{})
	adminSetWaves.AddRespStructure([]hunt.Wave{}, openapi.WithHTTPStatus(http.StatusOK))
	adminSetWaves.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	adminSetWaves.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(adminSetWaves)

	// GET /api/admin/puzzles
	adminPuzzles, _ := r.NewOperationContext(http.MethodGet, "/api/admin/puzzles")
	adminPuzzles.SetSummary("List puzzles")
	adminPuzzles.SetDescription("Returns all puzzles with answers. Requires admin_session cookie.")
	adminPuzzles.AddRespStructure([]PuzzleInput{}, openapi.WithHTTPStatus(http.StatusOK))
	adminPuzzles.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(adminPuzzles)

	// PUT /api/admin/puzzles
	adminSetPuzzles, _ := r.NewOperationContext(http.MethodPut, "/api/admin/puzzles")
	adminSetPuzzles.SetSummary("Replace puzzles")
	adminSetPuzzles.SetDescription("Replaces the complete puzzle list. Requires admin_session cookie.")
	adminSetPuzzles.AddReqStructure([]PuzzleInput{})
	adminSetPuzzles.AddRespStructure([]PuzzleInput{}, openapi.WithHTTPStatus(http.StatusOK))
	adminSetPuzzles.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	adminSetPuzzles.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(adminSetPuzzles)

	// GET /api/admin/hints
	adminHints, _ := r.NewOperationContext(http.MethodGet, "/api/admin/hints")
	adminHints.SetSummary("List hints")
	adminHints.SetDescription("Returns all hints. Requires admin_session cookie.")
	adminHints.AddRespStructure([]hunt.Hint{}, openapi.WithHTTPStatus(http.StatusOK))
	adminHints.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(adminHints)

	// PUT /api/admin/hints
	adminSetHints, _ := r.NewOperationContext(http.MethodPut, "/api/admin/hints")
	adminSetHints.SetSummary("Replace hints")
	adminSetHints.SetDescription("Replaces the complete hint list. Requires admin_session cookie.")
	adminSetHints.AddReqStructure([]HintInput{})
	adminSetHints.AddRespStructure([]hunt.Hint{}, openapi.WithHTTPStatus(http.StatusOK))
	adminSetHints.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	adminSetHints.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(adminSetHints)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
