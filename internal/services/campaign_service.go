package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"shapagatBack/internal/models"
	"shapagatBack/internal/repositories"
)

const (
	activeCampaignsCacheKey = "campaigns:active"
	campaignsCacheTTL       = 15 * time.Second
)

type CampaignService struct {
	CampaignRepo *repositories.CampaignRepository

	// Cache is optional; every cache failure degrades to a DB read.
	Cache *redis.Client
}

func (s *CampaignService) CreateCampaign(ctx context.Context, c models.Campaign) (models.Campaign, error) {
	created, err := s.CampaignRepo.CreateCampaign(ctx, c)
	if err != nil {
		return models.Campaign{}, err
	}
	s.invalidateCache(ctx)
	return created, nil
}

func (s *CampaignService) GetCampaignByID(ctx context.Context, id int) (models.Campaign, error) {
	return s.CampaignRepo.GetCampaignByID(ctx, id)
}

// GetCampaigns lists campaigns, serving the public active listing from
// Redis with a short TTL. Running totals in the cached listing may lag
// live donations by up to the TTL.
func (s *CampaignService) GetCampaigns(ctx context.Context, status string) ([]models.Campaign, error) {
	cacheable := s.Cache != nil && status == models.CampaignActive

	if cacheable {
		raw, err := s.Cache.Get(ctx, activeCampaignsCacheKey).Bytes()
		if err == nil {
			var campaigns []models.Campaign
			if err := json.Unmarshal(raw, &campaigns); err == nil {
				return campaigns, nil
			}
		} else if err != redis.Nil {
			log.Printf("campaign cache read failed: %v", err)
		}
	}

	campaigns, err := s.CampaignRepo.GetCampaigns(ctx, status)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if raw, err := json.Marshal(campaigns); err == nil {
			if err := s.Cache.Set(ctx, activeCampaignsCacheKey, raw, campaignsCacheTTL).Err(); err != nil {
				log.Printf("campaign cache write failed: %v", err)
			}
		}
	}
	return campaigns, nil
}

func (s *CampaignService) UpdateCampaign(ctx context.Context, c models.Campaign) (models.Campaign, error) {
	updated, err := s.CampaignRepo.UpdateCampaign(ctx, c)
	if err != nil {
		return models.Campaign{}, err
	}
	s.invalidateCache(ctx)
	return updated, nil
}

func (s *CampaignService) DeleteCampaign(ctx context.Context, id int) error {
	if err := s.CampaignRepo.DeleteCampaign(ctx, id); err != nil {
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

// RepairTotals recomputes drifted running totals from the sum of
// succeeded donations.
func (s *CampaignService) RepairTotals(ctx context.Context) (int64, error) {
	repaired, err := s.CampaignRepo.RepairTotals(ctx)
	if err != nil {
		return 0, err
	}
	if repaired > 0 {
		s.invalidateCache(ctx)
	}
	return repaired, nil
}

func (s *CampaignService) invalidateCache(ctx context.Context) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Del(ctx, activeCampaignsCacheKey).Err(); err != nil {
		log.Printf("campaign cache invalidation failed: %v", err)
	}
}
