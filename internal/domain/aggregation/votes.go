package aggregation

import "github.com/jhoicas/logicielhub-api/internal/domain/entity"

// VoteTally resultado del conteo de votos de una solicitud para un votante.
type VoteTally struct {
	Votes        []*entity.Vote
	Count        int
	UserHasVoted bool
	UserVote     *entity.Vote // voto del votante, nil si no votó
}

// TallyVotes cuenta los votos de requestID y busca el de voterID.
func TallyVotes(requestID, voterID string, votes []*entity.Vote) VoteTally {
	var t VoteTally
	for _, v := range votes {
		if v.RequestID != requestID {
			continue
		}
		t.Votes = append(t.Votes, v)
		t.Count++
		if v.VoterID == voterID && t.UserVote == nil {
			t.UserHasVoted = true
			t.UserVote = v
		}
	}
	return t
}
