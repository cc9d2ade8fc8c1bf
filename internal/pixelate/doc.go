// Package pixelate implements block pixelation of RGB images.
//
// An image is partitioned into square tiles (Plan) and every pixel of a tile
// is replaced by the tile's mean color (Reduce). Tiles are driven either
// sequentially or on a bounded goroutine pool (Strategy), and completed tiles
// can be streamed to a single consumer through a Progress channel.
//
// # Concurrency
//
// Tiles of a plan never share pixels, so concurrent tile units write the
// shared Buffer without a lock. The only synchronized state is the Progress
// queue and, when snapshots are enabled, the per-run gate that keeps a
// snapshot copy from observing a tile mid-write.
//
// Sequential and concurrent runs produce bit-identical buffers for the same
// input and tile size.
//
// # Progress
//
// Events may arrive in any tile order under the concurrent strategy. Run closes
// the channel after every tile unit has returned, so a consumer ranging over
// Progress.All always terminates:
//
//	progress := pixelate.NewProgress(64)
//	go func() {
//	    for ev := range progress.All() {
//	        render(ev)
//	    }
//	}()
//	_, err := pixelate.Run(ctx, buf, pixelate.Options{
//	    TileSize: 10,
//	    Strategy: pixelate.Concurrent{},
//	    Progress: progress,
//	})
package pixelate
