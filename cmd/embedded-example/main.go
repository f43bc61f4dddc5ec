// Demonstrates embedding the task core without the HTTP layer: add a few
// tasks, schedule a short reminder, wait for it to fire and print the
// month's history summary.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.uber.org/zap"

	"taskkeep/pkg/taskkeep"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	app, err := taskkeep.New(
		taskkeep.WithLogger(logger),
		taskkeep.WithPollInterval(200*time.Millisecond),
	)
	if err != nil {
		log.Fatalf("failed to create app: %v", err)
	}

	ctx := context.Background()
	if err := app.Start(ctx); err != nil {
		log.Fatalf("failed to start: %v", err)
	}
	defer app.Shutdown(ctx)

	today := time.Now().Format("2006-01-02")

	groceries, err := app.AddTask(ctx, "Buy groceries", today)
	if err != nil {
		log.Fatalf("failed to add task: %v", err)
	}
	laundry, err := app.AddTask(ctx, "Do the laundry", today)
	if err != nil {
		log.Fatalf("failed to add task: %v", err)
	}

	// Fire a reminder shortly and watch it arrive
	fired := make(chan string, 1)
	app.OnReminderDelivered(func(taskID string) {
		fired <- taskID
	})

	if _, err := app.ScheduleReminder(ctx, groceries.ID, time.Now().Add(500*time.Millisecond)); err != nil {
		log.Fatalf("failed to schedule reminder: %v", err)
	}

	select {
	case taskID := <-fired:
		fmt.Printf("reminder fired for task %s\n", taskID)
	case <-time.After(5 * time.Second):
		log.Fatal("reminder never fired")
	}

	if _, err := app.CompleteTask(ctx, groceries.ID); err != nil {
		log.Fatalf("failed to complete task: %v", err)
	}
	if _, err := app.CompleteTask(ctx, laundry.ID); err != nil {
		log.Fatalf("failed to complete task: %v", err)
	}

	summary := app.History(time.Now())
	fmt.Printf("completed this month: %d\n", summary.Tiles.TotalCompleted)
	fmt.Printf("most productive day: %s\n", summary.Tiles.MostProductiveDate)
	fmt.Printf("weekly series: %v\n", summary.WeeklySeries)
}
