// Command movierec 根据类型/导演偏好推荐电影。
//
//	movierec recommend --genres Drama,Crime --directors "Michael Mann" --num 5 --user alice
//	movierec import --movies ./dataset/movies.csv --reviews ./dataset/critic_reviews.csv --redis localhost:6379
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
