package handlers

import (
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/FamilyBoT/internal/service"
	"github.com/Kerhoff/FamilyBoT/internal/telegram"
)

// Register wires every command and callback handler into router.
func Register(router *telegram.Router, svc *service.Service, logger *logrus.Logger) {
	router.RegisterCommand("start", NewStartHandler(logger))
	router.RegisterCommand("help", NewHelpHandler(logger))

	// Family
	router.RegisterCommand("marry", NewMarryHandler(svc, logger))
	router.RegisterCommand("divorce", NewDivorceHandler(svc, logger))
	router.RegisterCommand("reset", NewResetHandler(logger))
	router.RegisterCommand("family", NewFamilyHandler(svc, logger))
	router.RegisterCommand("child", NewChildHandler(svc, logger))
	router.RegisterCommand("kids", NewKidsHandler(svc, logger))
	router.RegisterCommand("profile", NewProfileHandler(svc, logger))
	router.RegisterCommand("history", NewHistoryHandler(svc, logger))

	// Economy
	router.RegisterCommand("work", NewWorkHandler(svc, logger))
	router.RegisterCommand("quests", NewQuestsHandler(svc, logger))
	router.RegisterCommand("shop", NewShopHandler(svc, logger))
	router.RegisterCommand("buy", NewBuyHandler(svc, logger))
	router.RegisterCommand("daily", NewDailyHandler(svc, logger))
	router.RegisterCommand("casino", NewCasinoHandler(svc, logger))
	router.RegisterCommand("gift", NewGiftHandler(svc, logger))

	router.RegisterCallback(telegram.KindMarriageResponse, NewMarriageCallbackHandler(svc, logger))
	router.RegisterCallback(telegram.KindResetConfirmation, NewResetCallbackHandler(svc, logger))
}
