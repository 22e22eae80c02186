package db

import (
	"testing"

	"multitool/internal/models"
)

func TestPrefsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	conn, err := OpenPrefsDB(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	if _, ok, err := GetPref(conn, "missing"); err != nil || ok {
		t.Fatalf("GetPref(missing) = %v, %v", ok, err)
	}
	if err := SetPref(conn, "k", "one", 1); err != nil {
		t.Fatal(err)
	}
	if err := SetPref(conn, "k", "two", 2); err != nil {
		t.Fatal(err)
	}
	v, ok, err := GetPref(conn, "k")
	if err != nil || !ok || v != "two" {
		t.Fatalf("GetPref = %q, %v, %v", v, ok, err)
	}
}

func TestSettingsPersistAcrossOpens(t *testing.T) {
	dir := t.TempDir()
	conn, err := OpenPrefsDB(dir)
	if err != nil {
		t.Fatal(err)
	}
	summary := models.SummarySettings{Length: models.SummaryLengthLong, Strategy: models.StrategyDetailed}
	chat := models.ChatSettings{MaxTokens: 512, Temperature: 0.3}
	if err := SaveSummarySettings(conn, summary); err != nil {
		t.Fatal(err)
	}
	if err := SaveChatSettings(conn, chat); err != nil {
		t.Fatal(err)
	}
	if err := SetLastUploadDir(conn, "/home/me/papers"); err != nil {
		t.Fatal(err)
	}
	conn.Close()

	conn, err = OpenPrefsDB(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	gotSummary, err := LoadSummarySettings(conn)
	if err != nil || gotSummary != summary {
		t.Fatalf("LoadSummarySettings = %+v, %v", gotSummary, err)
	}
	gotChat, err := LoadChatSettings(conn)
	if err != nil || gotChat != chat {
		t.Fatalf("LoadChatSettings = %+v, %v", gotChat, err)
	}
	if d := LastUploadDir(conn); d != "/home/me/papers" {
		t.Fatalf("LastUploadDir = %q", d)
	}
}

func TestUnknownStoredValuesFallBackToDefaults(t *testing.T) {
	conn, err := OpenPrefsDB(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	_ = SetPref(conn, keySummaryStrategy, "telepathy", 1)
	_ = SetPref(conn, keyChatTemperature, "3.5", 1)
	_ = SetPref(conn, keyChatMaxTokens, "-4", 1)

	s, _ := LoadSummarySettings(conn)
	if s != models.DefaultSummarySettings() {
		t.Fatalf("summary = %+v", s)
	}
	c, _ := LoadChatSettings(conn)
	if c != models.DefaultChatSettings() {
		t.Fatalf("chat = %+v", c)
	}
}
