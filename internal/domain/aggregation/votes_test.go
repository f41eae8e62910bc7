package aggregation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/logicielhub-api/internal/domain/aggregation"
	"github.com/jhoicas/logicielhub-api/internal/domain/entity"
)

func TestTallyVotes(t *testing.T) {
	votes := []*entity.Vote{
		{ID: "v1", RequestID: "r1", VoterID: "u1"},
		{ID: "v2", RequestID: "r1", VoterID: "u2"},
		{ID: "v3", RequestID: "r2", VoterID: "u1"},
	}

	got := aggregation.TallyVotes("r1", "u2", votes)
	assert.Equal(t, 2, got.Count)
	assert.True(t, got.UserHasVoted)
	assert.Equal(t, "v2", got.UserVote.ID)

	got = aggregation.TallyVotes("r2", "u2", votes)
	assert.Equal(t, 1, got.Count)
	assert.False(t, got.UserHasVoted)
	assert.Nil(t, got.UserVote)

	got = aggregation.TallyVotes("r3", "u1", votes)
	assert.Zero(t, got.Count)
}
