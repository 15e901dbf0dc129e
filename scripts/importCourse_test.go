package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trainr/database"
)

const sample = `
title: Go basics
description: From zero
publish: true
modules:
  - title: Getting started
    lessons:
      - title: Install
        video: https://youtu.be/dQw4w9WgXcQ
        duration: 120
        preview: true
      - title: Hello world
        duration: 300
  - title: Coming soon
`

func TestParseCourse(t *testing.T) {
	cf, err := parseCourse(strings.NewReader(sample))
	require.NoError(t, err)
	assert.Equal(t, "Go basics", cf.Title)
	require.Len(t, cf.Modules, 2)
	assert.Len(t, cf.Modules[0].Lessons, 2)
	assert.Empty(t, cf.Modules[1].Lessons)

	_, err = parseCourse(strings.NewReader("description: no title\n"))
	assert.Error(t, err)

	_, err = parseCourse(strings.NewReader("title: x\nchapters: []\n"))
	assert.Error(t, err, "unknown keys are rejected")

	_, err = parseCourse(strings.NewReader("title: x\nmodules:\n  - title: m\n    lessons:\n      - title: l\n        duration: -5\n"))
	assert.Error(t, err)
}

func TestImportCourse(t *testing.T) {
	db, err := database.Open("sqlite", "file:import_test?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cf, err := parseCourse(strings.NewReader(sample))
	require.NoError(t, err)

	crs, err := importCourse(db, 3, cf)
	require.NoError(t, err)

	tree, err := database.LoadCourseTree(db, crs.ID)
	require.NoError(t, err)
	assert.True(t, tree.IsPublished)
	assert.Equal(t, uint(3), tree.InstructorID)
	require.Len(t, tree.Modules, 2)
	assert.Equal(t, "Getting started", tree.Modules[0].Title)
	require.Len(t, tree.Modules[0].Lessons, 2)
	assert.Equal(t, "Hello world", tree.Modules[0].Lessons[1].Title)
	assert.Equal(t, 1, tree.Modules[0].Lessons[1].OrderIndex)
	assert.True(t, tree.Modules[0].Lessons[0].IsPreview)
	assert.Empty(t, tree.Modules[1].Lessons)
}
