package players

type Player struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Color       string `json:"color"`
	GamesPlayed int    `json:"gamesPlayed"`
	BestScore   int    `json:"bestScore"`
}
