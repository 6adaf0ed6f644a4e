package analytics

type PlayerStats struct {
	PlayerID       string  `json:"playerId"`
	PlayerName     string  `json:"playerName"`
	PlayerColor    string  `json:"playerColor"`
	GamesPlayed    int     `json:"gamesPlayed"`
	TotalScore     int     `json:"totalScore"`
	BestScore      int     `json:"bestScore"`
	AvgPerformance float64 `json:"avgPerformance"`
	WinCount       int     `json:"winCount"`
	WinStreak      int     `json:"winStreak"`
	Hits           int     `json:"hits"`
	FriendlyHits   int     `json:"friendlyHits"`
}

type MachineStats struct {
	MachineCode  string  `json:"machineCode"`
	Sessions     int     `json:"sessions"`
	Wins         int     `json:"wins"`
	Fails        int     `json:"fails"`
	Forfeits     int     `json:"forfeits"`
	WinRate      float64 `json:"winRate"`
	AvgScore     float64 `json:"avgScore"`
	BestScore    int     `json:"bestScore"`
	Hits         int     `json:"hits"`
	FriendlyHits int     `json:"friendlyHits"`
	Rewards      int     `json:"rewards"`
}

type LeaderboardEntry struct {
	PlayerID    string `json:"playerId"`
	PlayerName  string `json:"playerName"`
	PlayerColor string `json:"playerColor"`
	Value       int    `json:"value"`
	Rank        int    `json:"rank"`
}
