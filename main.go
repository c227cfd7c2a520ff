package main

import (
	"context"
	"log"

	"unimart-io/unimart_api/configs"
	"unimart-io/unimart_api/controllers"
	"unimart-io/unimart_api/rabbitmq"
	"unimart-io/unimart_api/routes"
)

func main() {
	// Push delivery is optional; the engine runs without a broker and
	// just skips the push leg.
	if url := configs.LoadEnvFor("RABBITMQ_URL"); url != "" {
		rmq, err := rabbitmq.NewRabbitMQ(url, configs.LoadEnvFor("PUSH_QUEUE"))
		if err != nil {
			log.Fatalf("RabbitMQ initialization failed: %v", err)
		}
		defer rmq.Close()

		if err := rmq.SetupQueues(); err != nil {
			log.Fatalf("Failed to setup RabbitMQ queues: %v", err)
		}

		controllers.SetPushSender(rmq)
	}

	// Replay notification writes from other processes into the local
	// fan-out hub.
	go func() {
		if err := controllers.Notifications.Watch(context.Background(), controllers.NotificationCollection); err != nil {
			log.Printf("notification change stream stopped: %v", err)
		}
	}()

	router := routes.InitRoute()
	if err := router.Run("localhost:8080"); err != nil {
		log.Fatal(err)
	}
}
