package bolt

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	utils "github.com/vsiao/oenology-sub000/internal"
	"github.com/vsiao/oenology-sub000/store"
	"github.com/vsiao/oenology-sub000/store/storetest"
)

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.ActionLog {
		s, err := Open(filepath.Join(t.TempDir(), "vintner.bolt"))
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestActionKeys(t *testing.T) {
	t.Run("keys sort in sequence order past one byte", func(t *testing.T) {
		ctx := context.Background()
		s, err := Open(filepath.Join(t.TempDir(), "vintner.bolt"))
		require.NoError(t, err)
		defer s.Close()

		require.NoError(t, s.CreateGame(ctx, storetest.Record("g1", time.Now())))
		for seq := uint64(1); seq <= 300; seq++ {
			require.NoError(t, s.AppendAction(ctx, "g1", storetest.Choose(seq, "p1", "coins")))
		}

		page, err := s.ListActions(ctx, "g1", 254, 4)
		require.NoError(t, err)
		require.Len(t, page, 4)
		utils.AssertEqual(t, page[0].Seq, uint64(255))
		utils.AssertEqual(t, page[3].Seq, uint64(258))

		err = s.db.View(func(tx *bbolt.Tx) error {
			b, err := gameActions(tx, "g1")
			if err != nil {
				return err
			}
			utils.AssertEqual(t, b.Stats().KeyN, 300)
			return nil
		})
		utils.AssertNoError(t, err)
	})

	t.Run("requires a path", func(t *testing.T) {
		_, err := Open("")
		utils.AssertTrue(t, err != nil)
	})
}
